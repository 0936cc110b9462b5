package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scoutly/creatorscout/pkg/types"
)

// HTTPSearchClient posts the search query to the external execution service.
type HTTPSearchClient struct {
	url    string
	client *http.Client
}

func NewHTTPSearchClient(url string) *HTTPSearchClient {
	return &HTTPSearchClient{
		url:    url,
		client: &http.Client{Timeout: searchTimeout + time.Second},
	}
}

func (c *HTTPSearchClient) Search(ctx context.Context, query types.SearchQuery) (*types.SearchPage, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: status %d", resp.StatusCode)
	}
	var page types.SearchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
