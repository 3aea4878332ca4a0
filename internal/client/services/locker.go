package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

type LockerAPI interface {
	GetLocker(ctx context.Context) (*models.LockerView, error)
	UpdateLocker(ctx context.Context, l models.DigitalLocker) error
	CreateCredential(ctx context.Context, c models.Credential) error
	UpdateCredential(ctx context.Context, c models.Credential) error
	DeleteCredential(ctx context.Context, id models.ID) error
	TriggerInheritance(ctx context.Context) (*models.ActionResult, error)
}

// Locker backs the digital locker screen. Every write is followed by a
// refetch so the local copy always comes from the backend.
type Locker struct {
	api LockerAPI

	mu          sync.Mutex
	view        *models.LockerView
	credentials []models.Credential
	alert       string
}

func NewLocker(a LockerAPI) *Locker {
	return &Locker{api: a}
}

func (l *Locker) Load(ctx context.Context) (*models.LockerView, error) {
	v, err := l.api.GetLocker(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.alert = api.UserMessage(err)
		return nil, err
	}
	l.view, l.credentials, l.alert = v, v.Credentials(), ""
	return v, nil
}

// Credentials returns the loaded credentials in category display order.
func (l *Locker) Credentials() []models.Credential {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.credentials)
}

// Credential returns the loaded credential with the given id.
func (l *Locker) Credential(id models.ID) (models.Credential, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.view == nil {
		return models.Credential{}, ErrNotLoaded
	}
	i := slices.IndexFunc(l.credentials, func(c models.Credential) bool { return c.ID == id })
	if i < 0 {
		return models.Credential{}, ErrNotFound
	}
	return l.credentials[i], nil
}

// Settings returns the loaded locker settings.
func (l *Locker) Settings() (models.DigitalLocker, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.view == nil {
		return models.DigitalLocker{}, ErrNotLoaded
	}
	return l.view.Locker, nil
}

// SaveCredential creates c when it has no id and updates it otherwise.
func (l *Locker) SaveCredential(ctx context.Context, c models.Credential) error {
	if err := c.Validate(); err != nil {
		l.setAlert(err)
		return err
	}
	var err error
	if c.ID == "" {
		err = l.api.CreateCredential(ctx, c)
	} else {
		err = l.api.UpdateCredential(ctx, c)
	}
	return l.afterWrite(ctx, err)
}

func (l *Locker) DeleteCredential(ctx context.Context, id models.ID) error {
	return l.afterWrite(ctx, l.api.DeleteCredential(ctx, id))
}

func (l *Locker) UpdateSettings(ctx context.Context, settings models.DigitalLocker) error {
	if err := settings.Validate(); err != nil {
		l.setAlert(err)
		return err
	}
	return l.afterWrite(ctx, l.api.UpdateLocker(ctx, settings))
}

// TriggerInheritance starts the release of the locker to the inheritor.
func (l *Locker) TriggerInheritance(ctx context.Context) (*models.ActionResult, error) {
	res, err := l.api.TriggerInheritance(ctx)
	if err := l.afterWrite(ctx, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (l *Locker) Alert() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alert
}

func (l *Locker) afterWrite(ctx context.Context, err error) error {
	if err != nil {
		l.setAlert(err)
		return err
	}
	_, err = l.Load(ctx)
	return err
}

func (l *Locker) setAlert(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alert = api.UserMessage(err)
}
