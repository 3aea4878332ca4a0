package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
)

func authedTokens() *memTokens {
	return &memTokens{t: models.Tokens{Access: "a", Refresh: "r"}}
}

func TestLogin_PublicAndBothShapes(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var req models.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Username {
		case "flat":
			writeJSON(w, http.StatusOK, map[string]any{
				"access": "A", "refresh": "R", "user": map[string]any{"id": 1, "username": "flat", "role": "user"},
			})
		case "nested":
			writeJSON(w, http.StatusOK, map[string]any{
				"tokens": map[string]string{"access": "A2", "refresh": "R2"},
				"user":   map[string]any{"id": 2, "username": "nested", "role": "admin"},
			})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		}
	}).Methods(http.MethodPost)
	c := newTestClient(t, r, authedTokens())
	ctx := context.Background()

	resp, err := c.Login(ctx, "flat", "pw")
	require.NoError(t, err)
	assert.Equal(t, "A", resp.Access)
	assert.Equal(t, "R", resp.Refresh)
	assert.Equal(t, models.ID("1"), resp.User.ID)

	resp, err = c.Login(ctx, "nested", "pw")
	require.NoError(t, err)
	assert.Equal(t, "A2", resp.Access)
	assert.True(t, resp.User.IsAdmin())

	_, err = c.Login(ctx, "bad", "pw")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "No active account found with the given credentials", FieldMessage(err, "", "detail"))
}

func TestProfile_FlatAndNested(t *testing.T) {
	var nested atomic.Bool
	r := mux.NewRouter()
	r.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		u := map[string]any{"id": 5, "username": "anna", "email": "a@b.co", "role": "executor"}
		if nested.Load() {
			writeJSON(w, http.StatusOK, map[string]any{"user": u, "dead_mans_switch": map[string]any{}})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	c := newTestClient(t, r, authedTokens())

	u, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anna", u.Username)

	nested.Store(true)
	u, err = c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoleExecutor, u.Role)
}

func TestMessagesEndpoints(t *testing.T) {
	due := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	r := mux.NewRouter()
	r.HandleFunc("/api/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "m1", "title": "Hi", "status": "created", "delivery_date": due}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/messages/", func(w http.ResponseWriter, r *http.Request) {
		var d models.MessageDraft
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		writeJSON(w, http.StatusCreated, map[string]any{"id": "m2", "title": d.Title, "status": "created", "delivery_date": d.DeliveryDate})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/messages/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/api/messages/{id}/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": mux.Vars(r)["id"], "title": "Edited"})
	}).Methods(http.MethodPut)
	r.HandleFunc("/api/messages/schedule/", func(w http.ResponseWriter, r *http.Request) {
		var a models.MessageAction
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&a))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "scheduled " + a.MessageID.String(), "job_id": "j1"})
	}).Methods(http.MethodPost)
	c := newTestClient(t, r, authedTokens())
	ctx := context.Background()

	list, err := c.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].DeliveryDate.Equal(due))

	m, err := c.CreateMessage(ctx, models.MessageDraft{Title: "New", DeliveryDate: due})
	require.NoError(t, err)
	assert.Equal(t, models.ID("m2"), m.ID)

	m, err = c.UpdateMessage(ctx, "m2", models.MessageDraft{Title: "Edited"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("m2"), m.ID)

	require.NoError(t, c.DeleteMessage(ctx, "m2"))

	res, err := c.ScheduleMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "scheduled m1", res.Message)
	assert.Equal(t, "j1", res.JobID)
}

func TestMessagesEndpoints_NaiveTimestamps(t *testing.T) {
	// The message store writes isoformat() of naive UTC datetimes.
	const body = `[{"id": "abc", "title": "Hi", "content": "x", "recipient_email": "bob@example.com",
		"status": "sent", "delivery_date": "2030-01-01T00:00:00", "created_at": "2025-06-01T12:00:00.123456",
		"sent_at": "2030-01-01T00:00:05.5", "user_email": "anna@example.com", "job_id": null}]`
	r := mux.NewRouter()
	r.HandleFunc("/api/messages/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id}/status/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id": "j1", "status": "finished", "enqueued_at": "2025-06-01T12:00:00.5", "ended_at": nil,
		})
	}).Methods(http.MethodGet)
	c := newTestClient(t, r, authedTokens())
	ctx := context.Background()

	list, err := c.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	m := list[0]
	assert.Equal(t, models.ID("abc"), m.ID)
	assert.Equal(t, "bob@example.com", m.RecipientEmail)
	assert.True(t, m.DeliveryDate.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, m.CreatedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.UTC)))
	require.NotNil(t, m.SentAt)
	assert.True(t, m.SentAt.Equal(time.Date(2030, 1, 1, 0, 0, 5, 500000000, time.UTC)))
	assert.Empty(t, m.JobID)

	st, err := c.JobStatus(ctx, "j1")
	require.NoError(t, err)
	require.NotNil(t, st.EnqueuedAt)
	assert.True(t, st.EnqueuedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 500000000, time.UTC)))
	assert.Nil(t, st.EndedAt)
}

func TestChainEndpoints(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/chain/{token}/full/", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"chain": []map[string]any{
			{"id": 1, "generation": 2}, {"id": 2, "generation": 1},
		}})
	})
	r.HandleFunc("/api/chains/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer a", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"chains": []map[string]any{{"chain_id": 9, "latest_token": "tok"}}})
	})
	c := newTestClient(t, r, authedTokens())

	chain, err := c.FullChain(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, 2, chain[0].Generation, "server order is preserved")

	mine, err := c.UserChains(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "tok", mine[0].LatestToken)
}

func TestAccessFlowEndpoints(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/legacy/api/digital-locker/access/{token}/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch body["action"] {
		case "verify_identity":
			assert.Equal(t, "Jo", body["name"])
			writeJSON(w, http.StatusOK, map[string]any{"step": "otp_sent"})
		case "verify_otp":
			writeJSON(w, http.StatusOK, map[string]any{"credentials": []map[string]any{{"id": 1, "title": "Bank"}}})
		}
	}).Methods(http.MethodPost)
	c := newTestClient(t, r, &memTokens{})
	ctx := context.Background()

	info, err := c.VerifyIdentity(ctx, "tok", "Jo", "+1")
	require.NoError(t, err)
	assert.Equal(t, models.AccessStepOTPSent, info.Step)

	info, err = c.VerifyOTP(ctx, "tok", "123456")
	require.NoError(t, err)
	require.Len(t, info.Credentials, 1)
}
