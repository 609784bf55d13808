package seedcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/beerlog/beerboard/internal/domain/types"
)

// HTTPClient talks to a running server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	ID          string `json:"id"`
}

// Revalidate asks the server to refetch its source.
func (c *HTTPClient) Revalidate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/revalidate", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("revalidate: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("revalidate: unexpected status %d: %s", resp.StatusCode, body)
	}
	var out revalidateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode revalidate response: %w", err)
	}
	return out.ID, nil
}

// Leaderboard fetches the ranking and the id of the snapshot it came from.
func (c *HTTPClient) Leaderboard(ctx context.Context) ([]types.LeaderboardItem, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/leaderboard", http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("leaderboard: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("leaderboard: unexpected status %d", resp.StatusCode)
	}
	var items []types.LeaderboardItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, "", fmt.Errorf("decode leaderboard: %w", err)
	}
	return items, resp.Header.Get("X-Snapshot-ID"), nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
