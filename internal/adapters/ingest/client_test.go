package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Send(t *testing.T) {
	var received Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	p := Payload{
		Fingerprint:     "1a2b3c",
		InteractionType: "click",
		ContentType:     "procedure",
		ContentID:       101,
		ContentName:     "Lip Fillers Consultation",
		PageURL:         "/procedures/lip-fillers",
		SessionID:       "session-1",
	}

	if err := c.Send(context.Background(), p); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", contentType)
	}
	if received != p {
		t.Errorf("payload mismatch: got %+v, want %+v", received, p)
	}
}

func TestClient_AnyResponseIsSuccess(t *testing.T) {
	statuses := []int{200, 204, 400, 404, 500}
	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL)
		if err := c.Send(context.Background(), Payload{Fingerprint: "fp"}); err != nil {
			t.Errorf("status %d: expected success, got %v", status, err)
		}
		srv.Close()
	}
}

func TestClient_TransportFailure(t *testing.T) {
	// Point at a closed server to force a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), Payload{Fingerprint: "fp"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !errors.Is(err, ErrDispatch) {
		t.Errorf("expected ErrDispatch, got %v", err)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c := NewClient(srv.URL, WithTimeout(10*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := c.Send(ctx, Payload{Fingerprint: "fp"}); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
