package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kvmirror/kvmirror/lib/errors"
)

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Config holds the connection parameters of the record service client.
type Config struct {
	// BaseURL is the root of the record service API, including the API
	// version segment (e.g. https://api.kvmirror.io/v2).
	BaseURL string
	// Token is sent as a bearer credential on every request.
	Token string
	// TimeoutSecond bounds each request including retries.
	TimeoutSecond int
	// RetryCount is the number of attempts per request. Only network-level
	// failures are retried; HTTP error statuses surface immediately.
	RetryCount int
}

// --------------------------------------------------------------------------
// Wire Types
// --------------------------------------------------------------------------

// RecordData is a record as returned by the service.
type RecordData struct {
	Body        []byte
	ContentType string
}

// KeyItem is one entry of a key listing page.
type KeyItem struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ListKeysResult is one page of the key listing endpoint.
type ListKeysResult struct {
	Items                 []KeyItem `json:"items"`
	IsTruncated           bool      `json:"isTruncated"`
	NextExclusiveStartKey string    `json:"nextExclusiveStartKey"`
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// Client talks to the remote record service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	client     *http.Client
	retryCount int
	logger     *zap.Logger
}

// NewClient creates a record service client from the given configuration.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(config.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Newf(errors.CodeConfiguration,
			"invalid record service base URL %q", config.BaseURL)
	}

	timeout := time.Duration(config.TimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryCount := config.RetryCount
	if retryCount < 1 {
		retryCount = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Create client with default transport
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     timeout,
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		token:      config.Token,
		client:     client,
		retryCount: retryCount,
		logger:     logger,
	}, nil
}

// RecordURL returns the public HTTPS URL of a record. No network call.
func (c *Client) RecordURL(storeID, key string) string {
	return fmt.Sprintf("%s/key-value-stores/%s/records/%s",
		c.baseURL, url.PathEscape(storeID), url.PathEscape(key))
}

func (c *Client) storeURL(storeID string) string {
	return fmt.Sprintf("%s/key-value-stores/%s", c.baseURL, url.PathEscape(storeID))
}

// --------------------------------------------------------------------------
// Record Operations
// --------------------------------------------------------------------------

// PutRecord stores a record body under the given key.
func (c *Client) PutRecord(ctx context.Context, storeID, key string, body []byte, contentType string) error {
	resp, err := c.do(ctx, http.MethodPut, c.RecordURL(storeID, key), body, contentType)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError("put record", resp)
	}
	return nil
}

// GetRecord fetches a record. The boolean return value indicates whether
// the record exists.
func (c *Client) GetRecord(ctx context.Context, storeID, key string) (*RecordData, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.RecordURL(storeID, key), nil, "")
	if err != nil {
		return nil, false, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, false, statusError("get record", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, errors.Wrap(errors.CodeService, "reading record body failed", err)
	}
	return &RecordData{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, true, nil
}

// DeleteRecord removes a record. Deleting an absent record is not an error.
func (c *Client) DeleteRecord(ctx context.Context, storeID, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.RecordURL(storeID, key), nil, "")
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError("delete record", resp)
	}
	return nil
}

// --------------------------------------------------------------------------
// Store Operations
// --------------------------------------------------------------------------

// DeleteStore removes an entire store with all its records. Deleting an
// already-absent store is not an error.
func (c *Client) DeleteStore(ctx context.Context, storeID string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.storeURL(storeID), nil, "")
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError("delete store", resp)
	}
	return nil
}

// ListKeys fetches one page of the store's key listing, starting strictly
// after exclusiveStartKey when given.
func (c *Client) ListKeys(ctx context.Context, storeID, exclusiveStartKey string) (*ListKeysResult, error) {
	listURL := c.storeURL(storeID) + "/keys"
	if exclusiveStartKey != "" {
		listURL += "?exclusiveStartKey=" + url.QueryEscape(exclusiveStartKey)
	}

	resp, err := c.do(ctx, http.MethodGet, listURL, nil, "")
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError("list keys", resp)
	}

	var result ListKeysResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(errors.CodeService, "parsing key listing failed", err)
	}
	return &result, nil
}

// --------------------------------------------------------------------------
// Request Plumbing
// --------------------------------------------------------------------------

// do sends one request, retrying network-level failures. The request is
// rebuilt per attempt so the body reader is fresh on every try.
func (c *Client) do(ctx context.Context, method, requestURL string, body []byte, contentType string) (*http.Response, error) {
	var resp *http.Response
	var err error

	for i := 0; i < c.retryCount; i++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, errors.Wrap(errors.CodeService, "building request failed", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err = c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("record service request failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", i+1),
			zap.Error(err))
	}
	return nil, errors.Wrap(errors.CodeService,
		fmt.Sprintf("%s %s failed after %d attempts", method, requestURL, c.retryCount), err)
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Error("failed to close response body", zap.Error(err))
	}
}

// statusError converts an HTTP error response into a service error carrying
// the status and a trimmed excerpt of the response body.
func statusError(op string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(excerpt))
	if msg == "" {
		return errors.Newf(errors.CodeService, "%s: unexpected status %s", op, resp.Status)
	}
	return errors.Newf(errors.CodeService, "%s: unexpected status %s: %s", op, resp.Status, msg)
}
