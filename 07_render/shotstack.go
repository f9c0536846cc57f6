package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"reel-pipeline/types"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 120
)

// ErrNoRenderID means the submit call succeeded but the response carried no
// render identifier
var ErrNoRenderID = errors.New("render submission returned no render ID")

// ErrRenderTimeout means the poll loop exhausted its attempt budget
var ErrRenderTimeout = errors.New("render polling timed out")

// Client submits compiled edits to the Shotstack-compatible render API and
// polls until the render reaches a terminal state
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	maxAttempts  int
}

// NewClient creates a render Client. Zero pollInterval or maxAttempts select
// the defaults (5s interval, 120 attempts — a ~10 minute budget).
func NewClient(baseURL, apiKey string, pollInterval time.Duration, maxAttempts int) *Client {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

type submitResponse struct {
	Response struct {
		ID string `json:"id"`
	} `json:"response"`
}

type statusResponse struct {
	Response struct {
		ID     string `json:"id"`
		Status string `json:"status"` // queued | fetching | rendering | saving | done | failed
		URL    string `json:"url"`
		Error  string `json:"error"`
	} `json:"response"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Render submits the edit and blocks until the remote render finishes, fails,
// or the poll budget runs out
func (c *Client) Render(ctx context.Context, edit *Edit) (*types.RenderResult, error) {
	renderID, err := c.submit(ctx, edit)
	if err != nil {
		return nil, err
	}
	log.Printf("[render] Submitted render %s — polling every %s", renderID, c.pollInterval)
	return c.poll(ctx, renderID)
}

func (c *Client) submit(ctx context.Context, edit *Edit) (string, error) {
	body, err := json.Marshal(edit)
	if err != nil {
		return "", fmt.Errorf("marshal edit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timeline render failed to start: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("timeline render failed to start: %s", remoteErrorMessage(raw, resp.Status))
	}

	var sr submitResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if sr.Response.ID == "" {
		return "", ErrNoRenderID
	}
	return sr.Response.ID, nil
}

// poll checks render status at a fixed interval. A 404 is "not visible yet"
// and continues; only done/failed are terminal.
func (c *Client) poll(ctx context.Context, renderID string) (*types.RenderResult, error) {
	started := time.Now()

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		status, err := c.fetchStatus(ctx, renderID)
		if err != nil {
			if errors.Is(err, errRenderNotVisible) {
				log.Printf("[render] Render %s not visible yet (attempt %d)", renderID, attempt)
				continue
			}
			return nil, err
		}

		switch status.Response.Status {
		case "done":
			if status.Response.URL == "" {
				return nil, fmt.Errorf("render %s reported done without a video URL", renderID)
			}
			log.Printf("[render] ✅ Render %s done in %s", renderID, time.Since(started).Round(time.Second))
			return &types.RenderResult{VideoURL: status.Response.URL, RenderID: renderID}, nil
		case "failed":
			return nil, fmt.Errorf("remote render failed: %s", status.Response.Error)
		default:
			// queued | fetching | rendering | saving — keep waiting
		}
	}

	return nil, fmt.Errorf("%w: render %s still pending after %s (%d attempts)",
		ErrRenderTimeout, renderID, time.Since(started).Round(time.Second), c.maxAttempts)
}

var errRenderNotVisible = errors.New("render not visible yet")

func (c *Client) fetchStatus(ctx context.Context, renderID string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/render/"+renderID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll render %s: %w", renderID, err)
	}
	defer resp.Body.Close()

	// Eventual-consistency lag on the remote side: the render exists but the
	// status endpoint does not know it yet
	if resp.StatusCode == http.StatusNotFound {
		return nil, errRenderNotVisible
	}

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("poll render %s: %s", renderID, remoteErrorMessage(raw, resp.Status))
	}

	var sr statusResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	return &sr, nil
}

// remoteErrorMessage extracts the human-readable message from an API error
// body, falling back to the raw HTTP status
func remoteErrorMessage(body []byte, httpStatus string) string {
	var e apiErrorBody
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return httpStatus
}
