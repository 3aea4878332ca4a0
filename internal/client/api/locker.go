package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

const lockerPath = "/legacy/api/digital-locker/"

func credentialPath(id models.ID) string {
	return lockerPath + "credentials/" + url.PathEscape(id.String()) + "/"
}

func accessPath(token string) string {
	return lockerPath + "access/" + url.PathEscape(token) + "/"
}

func (c *Client) GetLocker(ctx context.Context) (*models.LockerView, error) {
	var out models.LockerView
	if err := c.get(ctx, lockerPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLocker(ctx context.Context, l models.DigitalLocker) error {
	return c.put(ctx, lockerPath, l, nil)
}

func (c *Client) CreateCredential(ctx context.Context, cr models.Credential) error {
	return c.post(ctx, lockerPath+"credentials/", cr, nil)
}

func (c *Client) UpdateCredential(ctx context.Context, cr models.Credential) error {
	return c.put(ctx, credentialPath(cr.ID), cr, nil)
}

func (c *Client) DeleteCredential(ctx context.Context, id models.ID) error {
	return c.delete(ctx, credentialPath(id))
}

func (c *Client) TriggerInheritance(ctx context.Context) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.post(ctx, lockerPath+"trigger-inheritance/", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccessInfo reads the state of an inheritance access token.
func (c *Client) AccessInfo(ctx context.Context, token string) (*models.AccessInfo, error) {
	var out models.AccessInfo
	if err := c.publicGet(ctx, accessPath(token), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyIdentity(ctx context.Context, token, name, phone string) (*models.AccessInfo, error) {
	var out models.AccessInfo
	body := models.IdentityVerification{Action: "verify_identity", Name: name, Phone: phone}
	if err := c.publicPost(ctx, accessPath(token), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, token, otp string) (*models.AccessInfo, error) {
	var out models.AccessInfo
	body := models.OTPVerification{Action: "verify_otp", OTP: otp}
	if err := c.publicPost(ctx, accessPath(token), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
