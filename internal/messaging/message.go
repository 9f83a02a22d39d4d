// Package messaging is a thin client for the LINE Messaging API: outgoing
// message construction, reply/push delivery, webhook parsing, and signature
// validation.
package messaging

// Message is an outgoing message in the Messaging API wire shape.
type Message struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// Action covers the action kinds the dialogue uses: postback, message,
// datetimepicker, location, camera and cameraRoll.
type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	Data        string `json:"data,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
	Text        string `json:"text,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Initial     string `json:"initial,omitempty"`
	Max         string `json:"max,omitempty"`
}

func NewText(text string) Message {
	return Message{Type: "text", Text: text}
}

// NewTextWithQuickReply attaches quick-reply buttons to a text message.
// Messages with no items are sent without a quick reply.
func NewTextWithQuickReply(text string, items ...QuickReplyItem) Message {
	m := NewText(text)
	if len(items) > 0 {
		m.QuickReply = &QuickReply{Items: items}
	}
	return m
}

func PostbackItem(label, data string) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: Action{
		Type:        "postback",
		Label:       label,
		Data:        data,
		DisplayText: label,
	}}
}

// DatetimePickerItem opens the platform's datetime picker. The chosen value
// comes back in the postback's params rather than its data payload.
func DatetimePickerItem(label, data, initial, max string) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: Action{
		Type:    "datetimepicker",
		Label:   label,
		Data:    data,
		Mode:    "datetime",
		Initial: initial,
		Max:     max,
	}}
}

func LocationItem(label string) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: Action{Type: "location", Label: label}}
}

func CameraItem(label string) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: Action{Type: "camera", Label: label}}
}

func CameraRollItem(label string) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: Action{Type: "cameraRoll", Label: label}}
}
