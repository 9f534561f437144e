package tui

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mattjoyce/tsh/internal/api"
	"github.com/mattjoyce/tsh/internal/events"
)

// Client reads the shell's status API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	// stream has no timeout; /events stays open.
	stream *http.Client
}

// NewClient creates a client for the API at baseURL (e.g. http://127.0.0.1:7878).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 2 * time.Second},
		stream:  &http.Client{},
	}
}

// Jobs fetches the current job table.
func (c *Client) Jobs(ctx context.Context) (api.JobsResponse, error) {
	var out api.JobsResponse
	err := c.getJSON(ctx, "/jobs", &out)
	return out, err
}

// Health fetches /healthz.
func (c *Client) Health(ctx context.Context) (api.HealthzResponse, error) {
	var out api.HealthzResponse
	err := c.getJSON(ctx, "/healthz", &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, path)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("GET %s: %s: %s", path, resp.Status, apiErr.Error)
		}
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Stream reads server-sent events into ch until the connection drops or ctx
// is done.
func (c *Client) Stream(ctx context.Context, lastID int64, ch chan<- events.Event) error {
	req, err := c.newRequest(ctx, "/events")
	if err != nil {
		return err
	}
	if lastID > 0 {
		req.Header.Set("Last-Event-ID", strconv.FormatInt(lastID, 10))
	}
	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("GET /events: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /events: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	var current events.Event
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(current.Data) > 0 {
				current.At = time.Now().UTC()
				select {
				case ch <- current:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			current = events.Event{}
		case strings.HasPrefix(line, "id: "):
			if id, err := strconv.ParseInt(line[4:], 10, 64); err == nil {
				current.ID = id
			}
		case strings.HasPrefix(line, "event: "):
			current.Type = line[7:]
		case strings.HasPrefix(line, "data: "):
			current.Data = json.RawMessage(line[6:])
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read /events: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}
