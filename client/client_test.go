package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/notify"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithToken("tok"), WithHTTPClient(srv.Client()))
}

func TestFollowUps(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/followups", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.FollowUpListResponse{Customers: []models.FollowUpCustomer{
			{CustomerCode: "C1", TotalValue: 10, Items: []models.FollowUpItem{{LogID: "L1", Item: "RING"}}},
		}})
	})

	customers, err := c.FollowUps(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "L1", customers[0].Items[0].LogID)
}

func TestMarkFollowUpDone(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/followups/L1/done", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"Marked as followed up"}`))
	})

	ack, err := c.MarkFollowUpDone(context.Background(), "L1")
	require.NoError(t, err)
	assert.True(t, ack.Success)
}

func TestRemoteErrorCarriesPayload(t *testing.T) {
	body := `{"success":false,"error":"Follow-up log L9 not found","_server_messages":` +
		mustJSON(t, models.EncodeServerMessages(models.ServerMessage{Message: "Follow-up log L9 not found", Title: "Not Found", Indicator: models.IndicatorRed})) + `}`
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(body))
	})

	_, err := c.MarkFollowUpDone(context.Background(), "L9")
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Contains(t, err.Error(), "Follow-up log L9 not found")
	assert.Equal(t, notify.KindServerMessages, notify.Classify(remote.Body).Kind)
}

func TestChart(t *testing.T) {
	empty := true
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if empty {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG..."))
	})

	_, err := c.Chart(context.Background())
	assert.ErrorIs(t, err, ErrNoChart)

	empty = false
	data, err := c.Chart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG...", string(data))
}

func TestCreateQuotation(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var draft models.QuotationDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "C1", draft.Party)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    models.Quotation{PartyName: draft.Party, Status: models.QuotationStatusDraft},
		})
	})

	q, err := c.CreateQuotation(context.Background(), models.QuotationDraft{
		Party: "C1",
		Items: []models.QuotationItem{{ItemCode: "RING", Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusDraft, q.Status)
}

func TestLoginStoresToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			_, _ = w.Write([]byte(`{"success":true,"data":{"token":"fresh"}}`))
			return
		}
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"customers":[]}`))
	})

	tok, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)

	_, err = c.FollowUps(context.Background())
	require.NoError(t, err)
}

func TestTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.FollowUps(context.Background())
	require.Error(t, err)
	var remote *RemoteError
	assert.False(t, errors.As(err, &remote))
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
