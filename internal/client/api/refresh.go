package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

const refreshPath = "/api/auth/token/refresh/"

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// refresh returns an access token to retry with after stale was rejected.
//
// Concurrent callers share one refresh. A caller whose stale token has
// already been replaced gets the current token without a new refresh.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	// The shared refresh must not die with the first caller's context.
	sctx := context.WithoutCancel(ctx)

	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		cur, err := c.tokens.Tokens(sctx)
		if err != nil {
			return "", fmt.Errorf("load tokens: %w", err)
		}
		if cur.Access != "" && cur.Access != stale {
			return cur.Access, nil
		}
		if cur.Refresh == "" {
			return "", c.expire(sctx, errors.New("no refresh token"))
		}

		var resp refreshResponse
		status, body, err := c.send(sctx, call{
			method: http.MethodPost,
			path:   refreshPath,
			body:   refreshRequest{Refresh: cur.Refresh},
			public: true,
		}, "")
		if err == nil {
			err = decode(status, body, &resp)
		}
		if err == nil && resp.Access == "" {
			err = fmt.Errorf("%w: empty access token", ErrMalformedResponse)
		}
		if err != nil {
			return "", c.expire(sctx, err)
		}

		next := models.Tokens{Access: resp.Access, Refresh: resp.Refresh}
		if next.Refresh == "" {
			next.Refresh = cur.Refresh
		}
		if err := c.tokens.SaveTokens(sctx, next); err != nil {
			return "", fmt.Errorf("save tokens: %w", err)
		}
		c.log.Info(sctx, "access token refreshed")
		return next.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// expire clears the session after a failed refresh and notifies the
// logged-out hook.
func (c *Client) expire(ctx context.Context, cause error) error {
	c.log.Warn(ctx, "session expired", "cause", cause)

	if err := c.tokens.ClearTokens(ctx); err != nil {
		c.log.Error(ctx, "clear tokens", "error", err)
	}

	c.mu.Lock()
	hook := c.onLoggedOut
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}
