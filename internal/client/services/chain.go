package services

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

type ChainAPI interface {
	ChainMessage(ctx context.Context, token string) (*models.ChainMessage, error)
	ExtendChain(ctx context.Context, token string, ext models.ChainExtension) error
	FullChain(ctx context.Context, token string) ([]models.ChainMessage, error)
	UserChains(ctx context.Context) ([]models.ChainSummary, error)
}

// Chain backs the chain link screen and the "my chains" list. History is
// kept in the order the backend returns it.
type Chain struct {
	api    ChainAPI
	webURL string
	token  string

	mu      sync.Mutex
	message *models.ChainMessage
	history []models.ChainMessage
	alert   string
}

// NewChain returns a controller for the chain link token. webURL is the
// base of shareable links, e.g. https://afteryou.example.
func NewChain(a ChainAPI, webURL, token string) *Chain {
	return &Chain{api: a, webURL: strings.TrimRight(webURL, "/"), token: token}
}

func (c *Chain) Load(ctx context.Context) (*models.ChainMessage, error) {
	msg, err := c.api.ChainMessage(ctx, c.token)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.alert = api.UserMessage(err)
		return nil, err
	}
	c.message, c.alert = msg, ""
	return msg, nil
}

func (c *Chain) History(ctx context.Context) ([]models.ChainMessage, error) {
	h, err := c.api.FullChain(ctx, c.token)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.alert = api.UserMessage(err)
		return nil, err
	}
	c.history, c.alert = h, ""
	return h, nil
}

// Extend validates ext and adds it to the chain. The backend forwards the
// chain to ext.RecipientEmail.
func (c *Chain) Extend(ctx context.Context, ext models.ChainExtension) error {
	err := ext.Validate()
	if err == nil {
		err = c.api.ExtendChain(ctx, c.token, ext)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.alert = api.UserMessage(err)
		return err
	}
	c.alert = ""
	return nil
}

func (c *Chain) UserChains(ctx context.Context) ([]models.ChainSummary, error) {
	chains, err := c.api.UserChains(ctx)
	if err != nil {
		c.mu.Lock()
		c.alert = api.UserMessage(err)
		c.mu.Unlock()
		return nil, err
	}
	return chains, nil
}

// ShareLink returns the web link that opens the latest generation of s.
func (c *Chain) ShareLink(s models.ChainSummary) string {
	return c.webURL + "/chain/" + url.PathEscape(s.LatestToken)
}

func (c *Chain) Alert() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}
