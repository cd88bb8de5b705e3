package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeDoer struct {
	lastReq *http.Request
	body    []byte
	status  int
	resp    string
	err     error
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		f.body = data
	}
	if f.err != nil {
		return nil, f.err
	}

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(f.resp)),
	}, nil
}

func TestHTTPInvalidatorSendsPurgeRequest(t *testing.T) {
	doer := &fakeDoer{}
	inv := NewHTTPInvalidator("https://cache.example.com/purge/", "secret-token")
	inv.SetHTTPClient(doer)

	err := inv.Invalidate(context.Background(),
		"https://blog.example.com/api/layout",
		"https://blog.example.com/api/layout?page_type=home",
	)
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if doer.lastReq.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", doer.lastReq.Method)
	}
	if doer.lastReq.URL.String() != "https://cache.example.com/purge" {
		t.Fatalf("unexpected purge url: %s", doer.lastReq.URL)
	}
	if got := doer.lastReq.Header.Get("Authorization"); got != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
	if got := doer.lastReq.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	var payload purgeRequest
	if err := json.NewDecoder(bytes.NewReader(doer.body)).Decode(&payload); err != nil {
		t.Fatalf("decode purge body: %v", err)
	}
	if len(payload.Files) != 2 {
		t.Fatalf("expected 2 files in payload, got %v", payload.Files)
	}
	if payload.Files[0] != "https://blog.example.com/api/layout" {
		t.Fatalf("unexpected first file: %s", payload.Files[0])
	}
}

func TestHTTPInvalidatorNoTokenOmitsAuthorization(t *testing.T) {
	doer := &fakeDoer{}
	inv := NewHTTPInvalidator("https://cache.example.com/purge", "")
	inv.SetHTTPClient(doer)

	if err := inv.Invalidate(context.Background(), "https://blog.example.com/"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if got := doer.lastReq.Header.Get("Authorization"); got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}
}

func TestHTTPInvalidatorEmptyURLListIsNoop(t *testing.T) {
	doer := &fakeDoer{}
	inv := NewHTTPInvalidator("https://cache.example.com/purge", "token")
	inv.SetHTTPClient(doer)

	if err := inv.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if doer.lastReq != nil {
		t.Fatalf("expected no request for empty url list")
	}
}

func TestHTTPInvalidatorErrorStatus(t *testing.T) {
	doer := &fakeDoer{status: http.StatusForbidden, resp: "invalid token"}
	inv := NewHTTPInvalidator("https://cache.example.com/purge", "bad-token")
	inv.SetHTTPClient(doer)

	err := inv.Invalidate(context.Background(), "https://blog.example.com/")
	if err == nil {
		t.Fatalf("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("expected body excerpt in error, got %v", err)
	}
}

func TestHTTPInvalidatorTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	doer := &fakeDoer{err: transportErr}
	inv := NewHTTPInvalidator("https://cache.example.com/purge", "token")
	inv.SetHTTPClient(doer)

	err := inv.Invalidate(context.Background(), "https://blog.example.com/")
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestNopInvalidator(t *testing.T) {
	if err := (NopInvalidator{}).Invalidate(context.Background(), "https://blog.example.com/"); err != nil {
		t.Fatalf("nop invalidator returned error: %v", err)
	}
}
