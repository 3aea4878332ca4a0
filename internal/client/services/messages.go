package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/poller"
	"github.com/dmitrijs2005/afteryou/internal/logging"
)

// MessagesAPI is the part of the backend the messages screens use.
type MessagesAPI interface {
	ListMessages(ctx context.Context) ([]models.Message, error)
	GetMessage(ctx context.Context, id models.ID) (*models.Message, error)
	CreateMessage(ctx context.Context, d models.MessageDraft) (*models.Message, error)
	UpdateMessage(ctx context.Context, id models.ID, d models.MessageDraft) (*models.Message, error)
	DeleteMessage(ctx context.Context, id models.ID) error
	SendTestMessage(ctx context.Context, id models.ID) (*models.ActionResult, error)
	ScheduleMessage(ctx context.Context, id models.ID) (*models.ActionResult, error)
	JobStatus(ctx context.Context, jobID string) (*models.JobStatus, error)
}

// Messages backs the message list, detail, create and edit screens.
type Messages struct {
	api          MessagesAPI
	log          logging.Logger
	now          func() time.Time
	pollInterval time.Duration

	mu     sync.Mutex
	items  []models.Message
	loaded bool
	alert  string
}

func NewMessages(a MessagesAPI, log logging.Logger, pollInterval time.Duration) *Messages {
	return &Messages{api: a, log: log, now: time.Now, pollInterval: pollInterval}
}

// Load fetches the message list and replaces the local copy.
func (m *Messages) Load(ctx context.Context) ([]models.Message, error) {
	items, err := m.api.ListMessages(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.alert = api.UserMessage(err)
		return nil, err
	}
	m.items, m.loaded, m.alert = items, true, ""
	return slices.Clone(items), nil
}

// Items returns the local copy of the list.
func (m *Messages) Items() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Alert returns the text of the last failure, or "".
func (m *Messages) Alert() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alert
}

func (m *Messages) Get(ctx context.Context, id models.ID) (*models.Message, error) {
	msg, err := m.api.GetMessage(ctx, id)
	if err != nil {
		m.fail(err)
		return nil, err
	}
	m.upsert(*msg)
	return msg, nil
}

// Create validates d and posts it. An invalid draft never reaches the
// backend.
func (m *Messages) Create(ctx context.Context, d models.MessageDraft) (*models.Message, error) {
	if err := d.Validate(m.now()); err != nil {
		m.fail(err)
		return nil, err
	}
	msg, err := m.api.CreateMessage(ctx, d)
	if err != nil {
		m.fail(err)
		return nil, err
	}
	m.upsert(*msg)
	return msg, nil
}

func (m *Messages) Update(ctx context.Context, id models.ID, d models.MessageDraft) (*models.Message, error) {
	if err := d.Validate(m.now()); err != nil {
		m.fail(err)
		return nil, err
	}
	msg, err := m.api.UpdateMessage(ctx, id, d)
	if err != nil {
		m.fail(err)
		return nil, err
	}
	if msg.ID == "" {
		msg.ID = id
	}
	m.upsert(*msg)
	return msg, nil
}

// Delete removes id on the backend and then from the local list. A 404
// means the message is already gone and also removes it. An id that is not
// in the local list returns ErrNotFound without a request.
func (m *Messages) Delete(ctx context.Context, id models.ID) error {
	m.mu.Lock()
	held := slices.ContainsFunc(m.items, func(x models.Message) bool { return x.ID == id })
	m.mu.Unlock()
	if !held {
		return ErrNotFound
	}

	err := m.api.DeleteMessage(ctx, id)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		m.fail(err)
		return err
	}
	if err != nil {
		m.log.Info(ctx, "message already deleted", "id", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.DeleteFunc(m.items, func(x models.Message) bool { return x.ID == id })
	m.alert = ""
	return nil
}

// SendTest asks the backend to deliver id to its recipient now.
func (m *Messages) SendTest(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	return m.action(ctx, id, m.api.SendTestMessage)
}

// Schedule queues id for delivery at its delivery date.
func (m *Messages) Schedule(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	return m.action(ctx, id, m.api.ScheduleMessage)
}

func (m *Messages) action(ctx context.Context, id models.ID,
	call func(context.Context, models.ID) (*models.ActionResult, error)) (*models.ActionResult, error) {
	res, err := call(ctx, id)
	if err != nil {
		m.fail(err)
		return nil, err
	}
	// The status changed server side; refresh the local copy.
	if msg, err := m.api.GetMessage(ctx, id); err == nil {
		m.upsert(*msg)
	} else {
		m.log.Warn(ctx, "refresh after action", "id", id, "error", err)
	}
	return res, nil
}

// WatchJob polls the status of jobID every poll interval until the returned
// task is stopped.
func (m *Messages) WatchJob(ctx context.Context, jobID string, onUpdate func(*models.JobStatus, error)) *poller.Task {
	return poller.Start(ctx, m.pollInterval, func(ctx context.Context) {
		st, err := m.api.JobStatus(ctx, jobID)
		if ctx.Err() != nil {
			return
		}
		onUpdate(st, err)
	})
}

func (m *Messages) upsert(msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alert = ""
	for i := range m.items {
		if m.items[i].ID == msg.ID {
			m.items[i] = msg
			return
		}
	}
	if m.loaded {
		m.items = append(m.items, msg)
	}
}

func (m *Messages) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alert = api.UserMessage(err)
}
