package cli

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/afteryou/internal/client/config"
	"github.com/dmitrijs2005/afteryou/internal/client/services"
	"github.com/dmitrijs2005/afteryou/internal/client/session"
	"github.com/dmitrijs2005/afteryou/internal/logging"
)

// Backend is everything the commands need from the REST API. *api.Client
// implements it.
type Backend interface {
	session.AuthAPI
	services.MessagesAPI
	services.MonitoringAPI
	services.CheckInAPI
	services.LockerAPI
	services.ChainAPI
	services.AccessAPI
}

// Env carries the wired dependencies of an App.
type Env struct {
	Config  *config.Config
	Backend Backend
	Session *session.Session
	Log     logging.Logger
	// Close releases what the factory opened. May be nil.
	Close func() error
}

// Factory builds the App once the configuration is known.
type Factory func(ctx context.Context, cfg *config.Config) (Env, error)

type App struct {
	cfg     *config.Config
	log     logging.Logger
	backend Backend
	session *session.Session

	messages   *services.Messages
	monitoring *services.Monitoring
	checkin    *services.CheckIn
	locker     *services.Locker

	reader *bufio.Reader
	// out is shared with background tickers such as the access countdown.
	out    io.Writer
	now    func() time.Time
	close  func() error

	bootstrapped bool
}

func newApp(e Env, reader *bufio.Reader, out io.Writer) *App {
	log := e.Log
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		cfg:        e.Config,
		log:        log,
		backend:    e.Backend,
		session:    e.Session,
		messages:   services.NewMessages(e.Backend, log, e.Config.JobPollInterval),
		monitoring: services.NewMonitoring(e.Backend, e.Config.SystemPollInterval),
		checkin:    services.NewCheckIn(e.Backend),
		locker:     services.NewLocker(e.Backend),
		reader:     reader,
		out:        &syncWriter{w: out},
		now:        time.Now,
		close:      e.Close,
	}
}

// syncWriter serializes writes to w.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// bootstrap restores the stored session once per process.
func (a *App) bootstrap(ctx context.Context) error {
	if a.bootstrapped {
		return nil
	}
	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	a.bootstrapped = true
	return nil
}

// status is the prompt decoration: the signed-in user, if any.
func (a *App) status() string {
	if u, ok := a.session.State().User(); ok {
		return "(" + u.Username + ")"
	}
	return ""
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
