package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTwilio(t *testing.T, handler http.HandlerFunc) *Twilio {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewTwilio(TwilioConfig{
		AccountSID: "ACtest",
		AuthToken:  "authtoken",
		FromNumber: "+14155238886",
		APIBase:    ts.URL,
		Logger:     testLogger(),
	})
}

func TestTwilioSend(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody, gotUser, gotPass string
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		r.ParseForm()
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	})

	err := tw.Send(context.Background(), "+15551234567", "✅ Message logged to your spreadsheet!")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/Accounts/ACtest/Messages.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotTo != "whatsapp:+15551234567" {
		t.Fatalf("expected whatsapp: prefix on To, got %q", gotTo)
	}
	if gotFrom != "whatsapp:+14155238886" {
		t.Fatalf("expected whatsapp: prefix on From, got %q", gotFrom)
	}
	if gotBody != "✅ Message logged to your spreadsheet!" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if gotUser != "ACtest" || gotPass != "authtoken" {
		t.Fatalf("unexpected basic auth %q:%q", gotUser, gotPass)
	}
}

func TestTwilioSendAPIError(t *testing.T) {
	tw := newTestTwilio(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":20003,"message":"Authentication Error"}`, http.StatusUnauthorized)
	})

	if err := tw.Send(context.Background(), "+1555", "hi"); err == nil {
		t.Fatal("expected error on 401")
	}
}
