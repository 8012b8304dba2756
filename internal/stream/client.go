// ABOUTME: HTTP/SSE client for the agent event source
// ABOUTME: Posts a run request and decodes the event-stream body into Event values

package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agentdeck/agentdeck/internal/event"
)

// eventBufferSize is the channel buffer between the SSE reader and the
// consumer; a slow consumer backpressures the reader rather than dropping.
const eventBufferSize = 16

// Client talks to the agent backend's run endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// NewClient creates a stream client. token may be empty for unauthenticated
// backends; pass nil logger for default.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger.With("component", "stream"),
	}
}

// RunRequest is the JSON body posted to start a run.
type RunRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Stream    bool   `json:"stream"`
}

// Run posts a user message to agentID and returns a channel of parsed
// events from the SSE response. The channel closes when the stream ends or
// ctx is cancelled.
func (c *Client) Run(ctx context.Context, agentID string, req *RunRequest) (<-chan *event.Event, error) {
	req.Stream = true
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/agents/%s/runs", c.baseURL, agentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	out := make(chan *event.Event, eventBufferSize)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		c.decode(ctx, resp.Body, out)
	}()

	return out, nil
}

// decode reads SSE frames from body and sends parsed events on out.
// Malformed frames are logged and skipped; one bad event must not kill the
// whole stream.
func (c *Client) decode(ctx context.Context, body io.Reader, out chan<- *event.Event) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var dataLines []string

	flush := func() {
		if len(dataLines) == 0 {
			return
		}
		data := strings.Join(dataLines, "\n")
		dataLines = nil

		evt, err := event.ParseEvent([]byte(data))
		if err != nil {
			c.logger.Warn("skipping malformed stream event", "error", err)
			return
		}

		select {
		case out <- evt:
		case <-ctx.Done():
		}
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()

		// Empty line signals end of frame
		if line == "" {
			flush()
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			continue
		}
		// event:/id:/retry: fields and comments are irrelevant here; the
		// payload itself carries the event kind.
	}

	// Stream may end without a trailing blank line
	flush()

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn("event stream ended with error", "error", err)
	}
}
