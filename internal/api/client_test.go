package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
		}
		w.Write([]byte(`{"data":{"id":7,"name":"general"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetToken("tok")

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "/boards/7", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{7, "general"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorTagging(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "structured 400 is invalid credentials",
			status:   http.StatusBadRequest,
			body:     `{"message":"wrong password"}`,
			wantKind: ErrorInvalidCredentials,
			wantMsg:  "wrong password",
		},
		{
			name:     "401 is unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"message":"expired"}`,
			wantKind: ErrorUnauthorized,
			wantMsg:  "expired",
		},
		{
			name:     "404 is not found",
			status:   http.StatusNotFound,
			body:     `{"message":"no such board"}`,
			wantKind: ErrorNotFound,
			wantMsg:  "no such board",
		},
		{
			name:     "unstructured body is unknown",
			status:   http.StatusBadRequest,
			body:     `<html>gateway sadness</html>`,
			wantKind: ErrorUnknown,
			wantMsg:  "",
		},
		{
			name:     "500 is unknown",
			status:   http.StatusInternalServerError,
			body:     `{"message":"boom"}`,
			wantKind: ErrorUnknown,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			err := c.Get(context.Background(), "/x", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %T, want *Error", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
			if apiErr.Status != tt.status {
				t.Errorf("status = %d, want %d", apiErr.Status, tt.status)
			}
		})
	}
}

func TestUnauthorizedHookFiresOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"login required"}`))
	}))
	defer srv.Close()

	var redirects int32
	c := NewClient(srv.URL, WithUnauthorizedHook(func() {
		atomic.AddInt32(&redirects, 1)
	}))
	c.SetToken("stale")

	const concurrent = 8
	var wg sync.WaitGroup
	wg.Add(concurrent)
	for i := 0; i < concurrent; i++ {
		go func() {
			defer wg.Done()
			_ = c.Get(context.Background(), "/auth/me", nil, nil)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&redirects); got != 1 {
		t.Errorf("unauthorized hook fired %d times, want 1", got)
	}
}

func TestUnauthorizedGuardRearmsOnNewToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var redirects int
	c := NewClient(srv.URL, WithUnauthorizedHook(func() { redirects++ }))

	c.SetToken("first")
	_ = c.Get(context.Background(), "/auth/me", nil, nil)
	_ = c.Get(context.Background(), "/auth/me", nil, nil)
	if redirects != 1 {
		t.Fatalf("redirects = %d after first session, want 1", redirects)
	}

	c.SetToken("second")
	_ = c.Get(context.Background(), "/auth/me", nil, nil)
	if redirects != 2 {
		t.Errorf("redirects = %d after second session, want 2", redirects)
	}
}

func TestUploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("reading form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "pic.png" {
			t.Errorf("filename = %q, want %q", hdr.Filename, "pic.png")
		}
		w.Write([]byte(`{"data":{"url":"https://cdn.example.com/pic.png"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	url, err := c.UploadImage(context.Background(), "pic.png", strings.NewReader("not-really-a-png"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "https://cdn.example.com/pic.png" {
		t.Errorf("url = %q", url)
	}
}
