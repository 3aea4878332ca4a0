package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

func messagePath(id models.ID) string {
	return "/api/messages/" + url.PathEscape(id.String()) + "/"
}

func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	if err := c.get(ctx, "/api/messages/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMessage(ctx context.Context, id models.ID) (*models.Message, error) {
	var out models.Message
	if err := c.get(ctx, messagePath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMessage(ctx context.Context, d models.MessageDraft) (*models.Message, error) {
	var out models.Message
	if err := c.post(ctx, "/api/messages/", d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMessage(ctx context.Context, id models.ID, d models.MessageDraft) (*models.Message, error) {
	var out models.Message
	if err := c.put(ctx, messagePath(id), d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id models.ID) error {
	return c.delete(ctx, messagePath(id))
}

func (c *Client) SendTestMessage(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.post(ctx, "/api/messages/send-test/", models.MessageAction{MessageID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ScheduleMessage(ctx context.Context, id models.ID) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.post(ctx, "/api/messages/schedule/", models.MessageAction{MessageID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
