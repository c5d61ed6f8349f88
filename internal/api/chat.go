package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ChatRequest is the payload for both streaming and non-streaming chat
type ChatRequest struct {
	UserMessage string `json:"user_message"`
	SessionID   string `json:"session_id,omitempty"`
	ModelID     int64  `json:"model_id,omitempty"`
}

// ChatMessage is a stored chat message
type ChatMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

// streamEvent is one decoded `data: ` line of the chat stream
type streamEvent struct {
	Type    string           `json:"type"`
	Content string           `json:"content"`
	Sources []map[string]any `json:"sources"`
	Error   string           `json:"error"`
}

// streamDataPrefix marks a candidate event line; everything else is noise.
const streamDataPrefix = "data: "

// SendChatMessage sends a non-streaming chat message
func (c *Client) SendChatMessage(ctx context.Context, req ChatRequest) (*ChatMessage, error) {
	var msg ChatMessage
	if err := c.doJSON(ctx, "POST", "/api/v1/chat/messages", req, &msg); err != nil {
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}
	return &msg, nil
}

// GetChatMessages retrieves historical messages, optionally for one session
func (c *Client) GetChatMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	path := "/api/v1/chat/messages"
	if sessionID != "" {
		path += "?session_id=" + url.QueryEscape(sessionID)
	}
	var msgs []ChatMessage
	if err := c.doJSON(ctx, "GET", path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}
	return msgs, nil
}

// StreamChatMessage opens a streaming chat request and dispatches decoded
// events to the callbacks until a terminal event or the stream ends.
//
// Every failure, expected or not, is delivered through onError as a single
// human-readable message; the function itself never returns one. A stream
// that ends cleanly without an explicit done/error event counts as complete.
// Cancelling ctx tears down the read and reports through onError.
func (c *Client) StreamChatMessage(
	ctx context.Context,
	req ChatRequest,
	onChunk func(string),
	onComplete func(),
	onError func(string),
	onSources func([]map[string]any),
) {
	data, err := json.Marshal(req)
	if err != nil {
		onError(fmt.Sprintf("failed to marshal request: %v", err))
		return
	}

	httpReq, err := c.newRequest(ctx, "POST", "/api/v1/chat/stream", strings.NewReader(string(data)), "application/json")
	if err != nil {
		onError(err.Error())
		return
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		onError(err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		onError((&StatusError{Code: resp.StatusCode}).Error())
		return
	}

	// Scanning on '\n' at the byte level reassembles lines split across
	// network reads; UTF-8 continuation bytes never collide with '\n', so
	// multi-byte runes survive arbitrary chunk boundaries.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}

		var evt streamEvent
		if err := json.Unmarshal([]byte(line[len(streamDataPrefix):]), &evt); err != nil {
			// Malformed lines never abort the stream
			c.logf("error parsing stream event: %v", err)
			continue
		}

		switch {
		case evt.Error != "":
			onError(evt.Error)
			return
		case evt.Type == "done":
			onComplete()
			return
		case evt.Type == "content" && evt.Content != "":
			onChunk(evt.Content)
		case evt.Type == "sources" && evt.Sources != nil && onSources != nil:
			onSources(evt.Sources)
		default:
			// Unrecognized event types (e.g. search_complete) are skipped
		}
	}

	if err := scanner.Err(); err != nil {
		onError(err.Error())
		return
	}

	// The backend closed the stream without a terminal event. Treat it as
	// completion so callers never hang in a streaming state.
	onComplete()
}
