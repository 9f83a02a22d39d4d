package messaging

import "encoding/json"

// WebhookRequest is the body the platform POSTs to the webhook endpoint.
type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent is one delivery inside a webhook request. Only the event
// kinds the dialogue reacts to are decoded.
type WebhookEvent struct {
	Type       string           `json:"type"`
	ReplyToken string           `json:"replyToken"`
	Timestamp  int64            `json:"timestamp"`
	Source     WebhookSource    `json:"source"`
	Message    *WebhookMessage  `json:"message"`
	Postback   *WebhookPostback `json:"postback"`
}

type WebhookSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type WebhookMessage struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Text      string  `json:"text"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type WebhookPostback struct {
	Data   string         `json:"data"`
	Params PostbackParams `json:"params"`
}

// PostbackParams carries datetimepicker results.
type PostbackParams struct {
	Datetime string `json:"datetime"`
}

// ParseWebhook decodes a webhook request body.
func ParseWebhook(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
