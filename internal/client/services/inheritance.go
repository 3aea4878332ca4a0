package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/export"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/poller"
)

// Step is a stage of the inheritance access flow.
type Step int

const (
	StepVerifyIdentity Step = iota
	StepVerifyOTP
	StepReveal
	StepExport
)

func (s Step) String() string {
	switch s {
	case StepVerifyIdentity:
		return "verify identity"
	case StepVerifyOTP:
		return "verify otp"
	case StepReveal:
		return "reveal"
	case StepExport:
		return "export"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

const (
	MsgInvalidAccessToken = "Invalid or expired access token"
	MsgUnverifiedToken    = "Unable to verify access token"
	MsgVerificationFailed = "Verification failed"
	MsgInvalidOTP         = "Invalid OTP"
	MsgUnverifiedIdentity = "Unable to verify identity"
	MsgUnverifiedOTP      = "Unable to verify OTP"
	MsgOTPSent            = "Verification successful! OTP has been sent to your phone."
	MsgAccessExpired      = "Access token has expired"
)

// ErrAccessExpired is returned by TimeRemaining once the access window has
// closed.
var ErrAccessExpired = errors.New(MsgAccessExpired)

// AccessAPI is the public, token-scoped part of the backend.
type AccessAPI interface {
	AccessInfo(ctx context.Context, token string) (*models.AccessInfo, error)
	VerifyIdentity(ctx context.Context, token, name, phone string) (*models.AccessInfo, error)
	VerifyOTP(ctx context.Context, token, otp string) (*models.AccessInfo, error)
}

// InheritanceSnapshot is a copy of the flow state for rendering.
type InheritanceSnapshot struct {
	Step        Step
	Info        models.AccessInfo
	Credentials []models.Credential
	Message     string
	Error       string
}

// Inheritance drives the inheritor through identity and OTP verification to
// the revealed credentials. The step only moves forward on success.
type Inheritance struct {
	api               AccessAPI
	token             string
	countdownInterval time.Duration
	now               func() time.Time

	mu          sync.Mutex
	step        Step
	info        models.AccessInfo
	credentials []models.Credential
	message     string
	alert       string
	countdown   *poller.Task
}

func NewInheritance(a AccessAPI, token string, countdownInterval time.Duration) *Inheritance {
	return &Inheritance{api: a, token: token, countdownInterval: countdownInterval, now: time.Now}
}

// Start loads the access token state and resumes the flow at the step the
// backend reports.
func (in *Inheritance) Start(ctx context.Context) error {
	info, err := in.api.AccessInfo(ctx, in.token)

	in.mu.Lock()
	defer in.mu.Unlock()
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			in.alert = MsgUnverifiedToken
		} else {
			in.alert = MsgInvalidAccessToken
		}
		return err
	}

	in.merge(info)
	switch {
	case info.Step == models.AccessStepVerified:
		in.step = StepReveal
	case info.Step == models.AccessStepOTPSent:
		in.step = StepVerifyOTP
	default:
		in.step = StepVerifyIdentity
	}
	in.alert = ""
	return nil
}

// SubmitIdentity sends the inheritor's name and phone number. On success the
// backend texts an OTP.
func (in *Inheritance) SubmitIdentity(ctx context.Context, name, phone string) error {
	if err := in.require(StepVerifyIdentity); err != nil {
		return err
	}
	info, err := in.api.VerifyIdentity(ctx, in.token, name, phone)
	return in.advance(info, err, StepVerifyOTP, MsgVerificationFailed, MsgUnverifiedIdentity)
}

// SubmitOTP sends the one-time password. On success the credentials are
// revealed.
func (in *Inheritance) SubmitOTP(ctx context.Context, otp string) error {
	if err := in.require(StepVerifyOTP); err != nil {
		return err
	}
	info, err := in.api.VerifyOTP(ctx, in.token, otp)
	return in.advance(info, err, StepReveal, MsgInvalidOTP, MsgUnverifiedOTP)
}

// advance moves to the step named by the response, then to Reveal when it
// carries credentials, and to confirmed otherwise. A rejected request alerts
// with the server message or fallback; an unreachable server with offline.
func (in *Inheritance) advance(info *models.AccessInfo, err error, confirmed Step, fallback, offline string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			in.alert = offline
		} else {
			in.alert = api.FieldMessage(err, fallback, "error")
		}
		return err
	}

	in.merge(info)
	switch {
	case info.Step == models.AccessStepVerified:
		in.step = StepReveal
	case info.Step == models.AccessStepOTPSent:
		in.step = StepVerifyOTP
	case info.Credentials != nil:
		in.step = StepReveal
	default:
		in.step = confirmed
	}

	in.alert = ""
	switch {
	case info.Message != "":
		in.message = info.Message
	case in.step == StepVerifyOTP:
		in.message = MsgOTPSent
	default:
		in.message = ""
	}
	return nil
}

// merge copies the non-empty parts of info into the flow state.
func (in *Inheritance) merge(info *models.AccessInfo) {
	if info.LockerTitle != "" {
		in.info.LockerTitle = info.LockerTitle
	}
	if info.LockerOwner != "" {
		in.info.LockerOwner = info.LockerOwner
	}
	if info.LockerDescription != "" {
		in.info.LockerDescription = info.LockerDescription
	}
	if info.ExpiresAt != nil {
		in.info.ExpiresAt = info.ExpiresAt
	}
	in.info.Step = info.Step
	if info.Credentials != nil {
		in.credentials = slices.Clone(info.Credentials)
	}
}

func (in *Inheritance) require(steps ...Step) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !slices.Contains(steps, in.step) {
		return fmt.Errorf("%w: %s", ErrStepNotAllowed, in.step)
	}
	return nil
}

// Export writes the revealed credentials to sink in format f, sealed when
// passphrase is not empty. It returns where the document went.
func (in *Inheritance) Export(ctx context.Context, f export.Format, sink export.Sink, passphrase []byte) (string, error) {
	if err := in.require(StepReveal, StepExport); err != nil {
		return "", err
	}

	in.mu.Lock()
	info, creds := in.info, slices.Clone(in.credentials)
	in.mu.Unlock()

	now := in.now()
	a, err := export.Build(export.NewDocument(info, creds, now), f, passphrase, now)
	if err != nil {
		return "", err
	}
	where, err := sink.Write(ctx, a)

	in.mu.Lock()
	defer in.mu.Unlock()
	if err != nil {
		in.alert = api.UserMessage(err)
		return "", err
	}
	in.step, in.alert = StepExport, ""
	return where, nil
}

// TimeRemaining formats the time left in the access window as "Xh Ym
// remaining". Without a known expiry it returns "".
func (in *Inheritance) TimeRemaining(now time.Time) (string, error) {
	in.mu.Lock()
	exp := in.info.ExpiresAt
	in.mu.Unlock()

	if exp == nil {
		return "", nil
	}
	left := exp.Sub(now)
	if left <= 0 {
		return "Expired", ErrAccessExpired
	}
	h := int(left / time.Hour)
	m := int((left % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm remaining", h, m), nil
}

// StartCountdown calls onTick with the remaining time every countdown
// interval until Close. Once the window expires the error is also kept as
// the flow alert.
func (in *Inheritance) StartCountdown(ctx context.Context, onTick func(string, error)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.countdown != nil {
		return
	}
	in.countdown = poller.Start(ctx, in.countdownInterval, func(ctx context.Context) {
		text, err := in.TimeRemaining(in.now())
		if err != nil {
			in.mu.Lock()
			in.alert = err.Error()
			in.mu.Unlock()
		}
		if onTick != nil {
			onTick(text, err)
		}
	})
}

// Close stops the countdown.
func (in *Inheritance) Close() {
	in.mu.Lock()
	t := in.countdown
	in.countdown = nil
	in.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

func (in *Inheritance) Snapshot() InheritanceSnapshot {
	in.mu.Lock()
	defer in.mu.Unlock()
	return InheritanceSnapshot{
		Step:        in.step,
		Info:        in.info,
		Credentials: slices.Clone(in.credentials),
		Message:     in.message,
		Error:       in.alert,
	}
}
