package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

var errOffline = fmt.Errorf("%w: dial tcp: connection refused", api.ErrUnavailable)

func apiError(status int, body string) error {
	return api.NewError(status, []byte(body))
}

type fakeMessagesAPI struct {
	mu sync.Mutex

	list      []models.Message
	listErr   error
	get       map[models.ID]models.Message
	createErr error
	deleteErr error
	actionErr error
	jobs      []models.JobStatus

	createCalls int
	deleteCalls int
	jobCalls    int
	lastDraft   models.MessageDraft
}

func (f *fakeMessagesAPI) ListMessages(ctx context.Context) ([]models.Message, error) {
	return f.list, f.listErr
}

func (f *fakeMessagesAPI) GetMessage(ctx context.Context, id models.ID) (*models.Message, error) {
	m, ok := f.get[id]
	if !ok {
		return nil, apiError(404, `{"detail":"Not found."}`)
	}
	return &m, nil
}

func (f *fakeMessagesAPI) CreateMessage(ctx context.Context, d models.MessageDraft) (*models.Message, error) {
	f.createCalls++
	f.lastDraft = d
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Message{ID: "new", Title: d.Title, Status: models.MessageCreated}, nil
}

func (f *fakeMessagesAPI) UpdateMessage(ctx context.Context, id models.ID, d models.MessageDraft) (*models.Message, error) {
	f.lastDraft = d
	return &models.Message{Title: d.Title, Status: models.MessageCreated}, nil
}

func (f *fakeMessagesAPI) DeleteMessage(ctx context.Context, id models.ID) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeMessagesAPI) SendTestMessage(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &models.ActionResult{Success: true, Message: "sent"}, nil
}

func (f *fakeMessagesAPI) ScheduleMessage(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	if f.actionErr != nil {
		return nil, f.actionErr
	}
	return &models.ActionResult{Success: true, JobID: "job-1"}, nil
}

func (f *fakeMessagesAPI) JobStatus(ctx context.Context, jobID string) (*models.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil, errors.New("no job")
	}
	st := f.jobs[min(f.jobCalls, len(f.jobs)-1)]
	f.jobCalls++
	return &st, nil
}

type fakeCheckInAPI struct {
	status      *models.CheckInStatus
	statusErr   error
	checkInErr  error
	settingsErr error

	checkInCalls  int
	statusCalls   int
	settingsCalls int
	gotSettings   models.CheckInSettings
}

func (f *fakeCheckInAPI) CheckIn(ctx context.Context) error {
	f.checkInCalls++
	return f.checkInErr
}

func (f *fakeCheckInAPI) CheckInStatus(ctx context.Context) (*models.CheckInStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := *f.status
	return &st, nil
}

func (f *fakeCheckInAPI) UpdateCheckInSettings(ctx context.Context, s models.CheckInSettings) error {
	f.settingsCalls++
	f.gotSettings = s
	return f.settingsErr
}

type fakeLockerAPI struct {
	view     models.LockerView
	writeErr error

	loads   int
	created []models.Credential
	updated []models.Credential
	deleted []models.ID
	locker  *models.DigitalLocker
	trigger int
}

func (f *fakeLockerAPI) GetLocker(ctx context.Context) (*models.LockerView, error) {
	f.loads++
	v := f.view
	return &v, nil
}

func (f *fakeLockerAPI) UpdateLocker(ctx context.Context, l models.DigitalLocker) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.locker = &l
	f.view.Locker = l
	return nil
}

func (f *fakeLockerAPI) CreateCredential(ctx context.Context, c models.Credential) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeLockerAPI) UpdateCredential(ctx context.Context, c models.Credential) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updated = append(f.updated, c)
	return nil
}

func (f *fakeLockerAPI) DeleteCredential(ctx context.Context, id models.ID) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLockerAPI) TriggerInheritance(ctx context.Context) (*models.ActionResult, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.trigger++
	f.view.Locker.Status = models.LockerTriggered
	return &models.ActionResult{Success: true, Message: "Inheritance triggered"}, nil
}

type fakeAccessAPI struct {
	info      *models.AccessInfo
	infoErr   error
	identity  *models.AccessInfo
	idErr     error
	otp       *models.AccessInfo
	otpErr    error
	idCalls   int
	otpCalls  int
	gotName   string
	gotPhone  string
	gotOTP    string
	lastToken string
}

func (f *fakeAccessAPI) AccessInfo(ctx context.Context, token string) (*models.AccessInfo, error) {
	f.lastToken = token
	return f.info, f.infoErr
}

func (f *fakeAccessAPI) VerifyIdentity(ctx context.Context, token, name, phone string) (*models.AccessInfo, error) {
	f.idCalls++
	f.gotName, f.gotPhone = name, phone
	return f.identity, f.idErr
}

func (f *fakeAccessAPI) VerifyOTP(ctx context.Context, token, otp string) (*models.AccessInfo, error) {
	f.otpCalls++
	f.gotOTP = otp
	return f.otp, f.otpErr
}

type fakeChainAPI struct {
	msg       *models.ChainMessage
	history   []models.ChainMessage
	chains    []models.ChainSummary
	err       error
	extends   []models.ChainExtension
	lastToken string
}

func (f *fakeChainAPI) ChainMessage(ctx context.Context, token string) (*models.ChainMessage, error) {
	f.lastToken = token
	return f.msg, f.err
}

func (f *fakeChainAPI) ExtendChain(ctx context.Context, token string, ext models.ChainExtension) error {
	f.lastToken = token
	if f.err != nil {
		return f.err
	}
	f.extends = append(f.extends, ext)
	return nil
}

func (f *fakeChainAPI) FullChain(ctx context.Context, token string) ([]models.ChainMessage, error) {
	return f.history, f.err
}

func (f *fakeChainAPI) UserChains(ctx context.Context) ([]models.ChainSummary, error) {
	return f.chains, f.err
}
