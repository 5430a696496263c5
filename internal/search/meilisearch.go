package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const entriesIndex = "entries"

// meiliClient is a minimal client for the Meilisearch documents API.
type meiliClient struct {
	baseURL string
	key     string
	http    *http.Client
}

func newMeiliClient(baseURL, key string, timeout time.Duration) *meiliClient {
	return &meiliClient{
		baseURL: baseURL,
		key:     key,
		http:    &http.Client{Timeout: timeout},
	}
}

// UpsertDocuments adds or replaces documents in the index.
func (m *meiliClient) UpsertDocuments(ctx context.Context, index string, docs any) error {
	body, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	return m.do(ctx, http.MethodPost, fmt.Sprintf("%s/indexes/%s/documents", m.baseURL, index), body)
}

// DeleteDocument removes one document from the index.
func (m *meiliClient) DeleteDocument(ctx context.Context, index, id string) error {
	return m.do(ctx, http.MethodDelete, fmt.Sprintf("%s/indexes/%s/documents/%s", m.baseURL, index, id), nil)
}

func (m *meiliClient) do(ctx context.Context, method, url string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if m.key != "" {
		req.Header.Set("Authorization", "Bearer "+m.key)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("meilisearch request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("meilisearch %s %s: status %d: %s", method, url, resp.StatusCode, payload)
	}
	return nil
}
