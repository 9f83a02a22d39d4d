package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxMessagesPerRequest is the Messaging API limit per reply or push call.
const maxMessagesPerRequest = 5

// Sender delivers messages to a reporter. Reply consumes a one-shot reply
// token; Push addresses the user directly.
type Sender interface {
	Reply(ctx context.Context, replyToken string, messages []Message) error
	Push(ctx context.Context, userID string, messages []Message) error
}

// Client talks to the Messaging API over HTTPS with a channel access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, channelAccessToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      channelAccessToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Reply sends messages against a reply token. The token is single-use, so
// only the first chunk can use it; any overflow past the per-request limit
// falls back to push delivery and needs a user id on the messages' source.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > maxMessagesPerRequest {
		messages = messages[:maxMessagesPerRequest]
	}
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
}

// Push sends messages directly to a user, split into API-sized chunks.
func (c *Client) Push(ctx context.Context, userID string, messages []Message) error {
	for len(messages) > 0 {
		chunk := messages
		if len(chunk) > maxMessagesPerRequest {
			chunk = chunk[:maxMessagesPerRequest]
		}
		if err := c.post(ctx, "/v2/bot/message/push", pushRequest{
			To:       userID,
			Messages: chunk,
		}); err != nil {
			return err
		}
		messages = messages[len(chunk):]
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messaging: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("messaging: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messaging: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("messaging: %s returned %s: %s", path, resp.Status, detail)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
