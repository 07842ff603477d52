package stackexchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{UserAgent: "stackwatch-test", Logger: testLogger()})
	resp := client.fetch(context.Background(), server.URL)

	if resp.Error != nil {
		t.Fatalf("fetch error = %v", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"items": []}` {
		t.Errorf("Body = %q", resp.Body)
	}
	if gotUserAgent != "stackwatch-test" {
		t.Errorf("User-Agent = %q, want %q", gotUserAgent, "stackwatch-test")
	}
}

func TestFetch_NonOKStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_id": 502}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Logger: testLogger()})
	resp := client.fetch(context.Background(), server.URL)

	if resp.Error != nil {
		t.Fatalf("fetch error = %v, want nil (status classification is the parser's job)", resp.Error)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := NewClient(ClientConfig{Timeout: 20 * time.Millisecond, Logger: testLogger()})
	resp := client.fetch(context.Background(), server.URL)

	if resp.Error == nil {
		t.Fatal("fetch error = nil, want timeout")
	}
}

func TestFetch_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBodySize+4096)))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Logger: testLogger()})
	resp := client.fetch(context.Background(), server.URL)

	if resp.Error != nil {
		t.Fatalf("fetch error = %v", resp.Error)
	}
	if len(resp.Body) != maxResponseBodySize {
		t.Errorf("len(Body) = %d, want capped at %d", len(resp.Body), maxResponseBodySize)
	}
}

func TestClient_CloseIsSafe(t *testing.T) {
	client := NewClient(ClientConfig{Logger: testLogger()})
	client.Close()
	client.Close() // idempotent

	var nilClient *Client
	nilClient.Close() // safe on nil
}

func TestDefaultIgnorable(t *testing.T) {
	if DefaultIgnorable(nil) {
		t.Error("DefaultIgnorable(nil) = true, want false")
	}
	if !DefaultIgnorable(context.Canceled) {
		t.Error("DefaultIgnorable(context.Canceled) = false, want true")
	}

	// a refused connection is a no-network style condition
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	client := NewClient(ClientConfig{Logger: testLogger()})
	resp := client.fetch(context.Background(), dead.URL)
	if resp.Error == nil {
		t.Fatal("expected a transport error from a closed server")
	}
	if !DefaultIgnorable(resp.Error) {
		t.Errorf("DefaultIgnorable(%v) = false, want true for connection refused", resp.Error)
	}

	// an ordinary parse-level failure is reportable
	if DefaultIgnorable(context.DeadlineExceeded) {
		t.Error("DefaultIgnorable(context.DeadlineExceeded) = true, want false (timeouts are reportable)")
	}
}
