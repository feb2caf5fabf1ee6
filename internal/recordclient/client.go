package recordclient

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

	"github.com/EO-DataHub/eodhp-record-services/models"
)

// Client is a client for the record REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// NewClient creates a new instance of Client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// List fetches every record whose level equals level, or all records when level is empty.
func (c *Client) List(ctx context.Context, level string) ([]models.Record, error) {
	respBody, err := c.makeRequest(ctx, http.MethodGet, "/record?level="+url.QueryEscape(level), nil)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(respBody, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, id string) (*models.Record, error) {
	respBody, err := c.makeRequest(ctx, http.MethodGet, "/record/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var record models.Record
	if err := json.Unmarshal(respBody, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &record, nil
}

// Create posts payload, a RecordPayload or any JSON-encodable row, as a new record.
func (c *Client) Create(ctx context.Context, payload interface{}) (models.InsertResult, error) {
	var result models.InsertResult

	respBody, err := c.makeRequest(ctx, http.MethodPost, "/record/", payload)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to decode insert result: %w", err)
	}
	return result, nil
}

// Update overwrites the fields of a record.
func (c *Client) Update(ctx context.Context, id string, payload models.RecordPayload) (models.UpdateResult, error) {
	var result models.UpdateResult

	respBody, err := c.makeRequest(ctx, http.MethodPatch, "/record/"+url.PathEscape(id), payload)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to decode update result: %w", err)
	}
	return result, nil
}

// Delete removes a single record.
func (c *Client) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	var result models.DeleteResult

	respBody, err := c.makeRequest(ctx, http.MethodDelete, "/record/"+url.PathEscape(id), nil)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to decode delete result: %w", err)
	}
	return result, nil
}

// BulkDelete removes several records in one request.
func (c *Client) BulkDelete(ctx context.Context, ids []string) (models.BulkDeleteResponse, error) {
	var result models.BulkDeleteResponse

	if ids == nil {
		ids = []string{}
	}
	respBody, err := c.makeRequest(ctx, http.MethodDelete, "/record/bulk-delete", models.BulkDeleteRequest{IDs: ids})
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, fmt.Errorf("failed to decode bulk delete result: %w", err)
	}
	return result, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}
