// Package session holds the authentication state of the client.
//
// A Session is created once per process, bootstrapped from the stored tokens
// and handed to whatever needs to know who is signed in. There is no
// package-level state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
	"github.com/dmitrijs2005/afteryou/internal/common"
	"github.com/dmitrijs2005/afteryou/internal/logging"
)

const (
	msgLoginFailed    = "Login failed. Please try again."
	msgRegisterFailed = "Registration failed. Please try again."
)

// AuthAPI is the part of the backend the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Profile(ctx context.Context) (*models.User, error)
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	State     router.State
	IsLoading bool
	Error     string
}

type Session struct {
	api    AuthAPI
	tokens api.TokenStore
	log    logging.Logger

	mu      sync.RWMutex
	state   router.State
	loading bool
	err     string
}

// New returns a session in the Loading state.
func New(a AuthAPI, tokens api.TokenStore, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{api: a, tokens: tokens, log: log, state: router.Loading(), loading: true}
}

// Bootstrap validates the stored access token against the profile endpoint.
// Any failure clears the tokens and leaves the session Anonymous.
func (s *Session) Bootstrap(ctx context.Context) error {
	s.set(router.Loading(), true, "")

	t, err := s.tokens.Tokens(ctx)
	if err != nil {
		s.set(router.Anonymous(), false, "")
		return err
	}
	if t.Access == "" {
		s.set(router.Anonymous(), false, "")
		return nil
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.log.Info(ctx, "stored session rejected", "error", err)
		if cerr := s.tokens.ClearTokens(ctx); cerr != nil {
			s.log.Error(ctx, "clear tokens", "error", cerr)
		}
		s.set(router.Anonymous(), false, "")
		return nil
	}

	s.set(router.Authenticated(*user), false, "")
	return nil
}

// Login signs in and stores both tokens. On failure the session stays
// Anonymous and Snapshot().Error holds the alert text.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	s.loading, s.err = true, ""
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, username, password)
	if err == nil {
		err = s.tokens.SaveTokens(ctx, models.Tokens{Access: resp.Access, Refresh: resp.Refresh})
	}
	if err != nil {
		s.set(router.Anonymous(), false, api.FieldMessage(err, msgLoginFailed, "detail", "error"))
		return err
	}

	s.set(router.Authenticated(resp.User), false, "")
	s.log.Info(ctx, "signed in", "user", resp.User.Username)
	return nil
}

// Register creates an account. It does not sign in.
func (s *Session) Register(ctx context.Context, req models.RegisterRequest) error {
	s.mu.Lock()
	s.loading, s.err = true, ""
	s.mu.Unlock()

	err := req.Validate()
	msg := api.UserMessage(err)
	if err == nil {
		err = s.api.Register(ctx, req)
		msg = api.FieldMessage(err, msgRegisterFailed, "error")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = msg
	}
	return err
}

func (s *Session) Logout(ctx context.Context) error {
	err := s.tokens.ClearTokens(ctx)
	s.set(router.Anonymous(), false, "")
	return err
}

// HandleLoggedOut is the API client's logged-out hook.
func (s *Session) HandleLoggedOut() {
	s.set(router.Anonymous(), false, api.MsgSessionExpired)
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// UpdateUser replaces the signed-in user, e.g. after a profile edit.
// It is a no-op unless the session is Authenticated.
func (s *Session) UpdateUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsAuthenticated() {
		s.state = router.Authenticated(u)
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, IsLoading: s.loading, Error: s.err}
}

// Claims decodes the stored access token.
func (s *Session) Claims(ctx context.Context) (Claims, error) {
	t, err := s.tokens.Tokens(ctx)
	if err != nil {
		return Claims{}, err
	}
	if t.Access == "" {
		return Claims{}, fmt.Errorf("%w: no access token stored", common.ErrInvalidToken)
	}
	return ParseClaims(t.Access)
}

func (s *Session) State() router.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) set(st router.State, loading bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.loading, s.err = st, loading, errMsg
}
