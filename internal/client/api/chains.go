package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

func chainPath(token string) string {
	return "/api/chain/" + url.PathEscape(token) + "/"
}

func (c *Client) ChainMessage(ctx context.Context, token string) (*models.ChainMessage, error) {
	var out models.ChainMessage
	if err := c.publicGet(ctx, chainPath(token), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExtendChain(ctx context.Context, token string, ext models.ChainExtension) error {
	return c.publicPost(ctx, chainPath(token)+"extend/", ext, nil)
}

// FullChain returns the chain history in server order.
func (c *Client) FullChain(ctx context.Context, token string) ([]models.ChainMessage, error) {
	var out struct {
		Chain []models.ChainMessage `json:"chain"`
	}
	if err := c.publicGet(ctx, chainPath(token)+"full/", &out); err != nil {
		return nil, err
	}
	return out.Chain, nil
}

func (c *Client) UserChains(ctx context.Context) ([]models.ChainSummary, error) {
	var out struct {
		Chains []models.ChainSummary `json:"chains"`
	}
	if err := c.get(ctx, "/api/chains/", &out); err != nil {
		return nil, err
	}
	return out.Chains, nil
}
