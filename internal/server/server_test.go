package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wildlife-report-hub/backend/internal/conversation"
)

type fakeDispatcher struct {
	inputs chan *conversation.Input
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{inputs: make(chan *conversation.Input, 16)}
}

func (d *fakeDispatcher) Handle(_ context.Context, in *conversation.Input) error {
	d.inputs <- in
	return nil
}

func (d *fakeDispatcher) wait(t *testing.T) *conversation.Input {
	t.Helper()
	select {
	case in := <-d.inputs:
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("no input dispatched")
		return nil
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, handler http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookDispatchesEvents(t *testing.T) {
	dispatcher := newFakeDispatcher()
	srv := New("secret", dispatcher)
	body := []byte(`{"events":[
		{"type":"message","replyToken":"rt1","source":{"type":"user","userId":"U1"},
		 "message":{"id":"m1","type":"text","text":"サル"}},
		{"type":"postback","replyToken":"rt2","source":{"type":"user","userId":"U1"},
		 "postback":{"data":"action=select_animal&animal=monkey"}},
		{"type":"message","replyToken":"rt3","source":{"type":"user","userId":"U1"},
		 "message":{"id":"m2","type":"location","latitude":36.23,"longitude":137.97}},
		{"type":"unfollow","source":{"type":"user","userId":"U1"}}
	]}`)

	rec := postWebhook(t, srv.Handler(), body, sign("secret", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	first := dispatcher.wait(t)
	if first.Kind != conversation.KindText || first.Text != "サル" {
		t.Errorf("first input = %+v", first)
	}
	second := dispatcher.wait(t)
	if second.Kind != conversation.KindPostback || second.Postback.Action != "select_animal" {
		t.Errorf("second input = %+v", second)
	}
	if second.Postback.Get("animal") != "monkey" {
		t.Errorf("animal param = %q", second.Postback.Get("animal"))
	}
	third := dispatcher.wait(t)
	if third.Kind != conversation.KindLocation || third.Latitude != 36.23 {
		t.Errorf("third input = %+v", third)
	}

	select {
	case in := <-dispatcher.inputs:
		t.Errorf("unexpected extra input: %+v", in)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	dispatcher := newFakeDispatcher()
	srv := New("secret", dispatcher)
	body := []byte(`{"events":[]}`)

	rec := postWebhook(t, srv.Handler(), body, sign("wrong-secret", body))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = postWebhook(t, srv.Handler(), body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d for missing signature, want 401", rec.Code)
	}
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	srv := New("secret", newFakeDispatcher())
	body := []byte(`{"events": not-json`)

	rec := postWebhook(t, srv.Handler(), body, sign("secret", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := New("secret", newFakeDispatcher())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTranslateFollowEvent(t *testing.T) {
	dispatcher := newFakeDispatcher()
	srv := New("secret", dispatcher)
	body := []byte(`{"events":[{"type":"follow","replyToken":"rt","source":{"type":"user","userId":"U9"}}]}`)

	postWebhook(t, srv.Handler(), body, sign("secret", body))
	in := dispatcher.wait(t)
	if in.Kind != conversation.KindFollow || in.UserID != "U9" {
		t.Errorf("input = %+v", in)
	}
}
