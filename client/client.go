// Package client calls the follow-up API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/notify"
)

// ErrNoChart is returned by Chart when the server has nothing to draw.
var ErrNoChart = errors.New("no chart data")

// defaultHTTPClient is shared by clients created without WithHTTPClient.
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	},
}

// RemoteError is a non-2xx response. Body holds the raw error payload so it
// can be passed to notify.Normalizer.Handle.
type RemoteError struct {
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed with status %d: %s", e.Status, notify.Summarize(e.Body))
}

// Client talks to one API base URL.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the shared http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: defaultHTTPClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Data models.LoginResponse `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.Data.Token
	return c.token, nil
}

// FollowUps returns the current user's open follow-ups grouped by customer.
func (c *Client) FollowUps(ctx context.Context) ([]models.FollowUpCustomer, error) {
	var resp models.FollowUpListResponse
	if err := c.do(ctx, http.MethodGet, "/api/followups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Customers, nil
}

// MarkFollowUpDone marks one log entry complete.
func (c *Client) MarkFollowUpDone(ctx context.Context, logID string) (models.FollowUpAck, error) {
	var ack models.FollowUpAck
	err := c.do(ctx, http.MethodPost, "/api/followups/"+url.PathEscape(logID)+"/done", nil, &ack)
	return ack, err
}

// MarkCustomerDone marks every open log of a customer complete.
func (c *Client) MarkCustomerDone(ctx context.Context, customerCode string) (models.FollowUpAck, error) {
	var ack models.FollowUpAck
	err := c.do(ctx, http.MethodPost, "/api/followups/customers/"+url.PathEscape(customerCode)+"/done", nil, &ack)
	return ack, err
}

// FrequencyBuckets returns the bucket summary.
func (c *Client) FrequencyBuckets(ctx context.Context) (models.FrequencyBucketsResponse, error) {
	var resp models.FrequencyBucketsResponse
	err := c.do(ctx, http.MethodGet, "/api/dashboard/frequency-buckets", nil, &resp)
	return resp, err
}

// BucketDetail returns the drill-down for one bucket.
func (c *Client) BucketDetail(ctx context.Context, index int) (*models.BucketDetailResponse, error) {
	var resp models.BucketDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/dashboard/frequency-buckets/%d", index), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chart returns the PNG pie chart, or ErrNoChart when every bucket is empty.
func (c *Client) Chart(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/dashboard/frequency-buckets/chart.png", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrNoChart
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &RemoteError{Status: resp.StatusCode, Body: data}
	}
	return data, nil
}

// CreateQuotation stores a draft quotation from a pre-fill.
func (c *Client) CreateQuotation(ctx context.Context, draft models.QuotationDraft) (*models.Quotation, error) {
	var resp struct {
		Data models.Quotation `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/quotations", draft, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateDocument lets a Client act as the widget's navigator.
func (c *Client) CreateDocument(ctx context.Context, draft models.QuotationDraft) error {
	_, err := c.CreateQuotation(ctx, draft)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Body: data}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
