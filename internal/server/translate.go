package server

import (
	"wildlife-report-hub/backend/internal/conversation"
	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/postback"
)

// translateEvent maps a webhook event onto a dialogue input. Events the
// dialogue has no use for report ok=false.
func translateEvent(event *messaging.WebhookEvent) (*conversation.Input, bool) {
	if event.Source.UserID == "" {
		return nil, false
	}
	in := &conversation.Input{
		UserID:     event.Source.UserID,
		ReplyToken: event.ReplyToken,
	}

	switch event.Type {
	case "follow":
		in.Kind = conversation.KindFollow
		return in, true
	case "postback":
		if event.Postback == nil {
			return nil, false
		}
		payload := postback.Parse(event.Postback.Data)
		in.Kind = conversation.KindPostback
		in.Postback = &payload
		in.PostbackDatetime = event.Postback.Params.Datetime
		return in, true
	case "message":
		if event.Message == nil {
			return nil, false
		}
		switch event.Message.Type {
		case "text":
			in.Kind = conversation.KindText
			in.Text = event.Message.Text
		case "image":
			in.Kind = conversation.KindImage
			in.ImageID = event.Message.ID
		case "location":
			in.Kind = conversation.KindLocation
			in.Latitude = event.Message.Latitude
			in.Longitude = event.Message.Longitude
			in.Address = event.Message.Address
		default:
			return nil, false
		}
		return in, true
	}
	return nil, false
}
