package asked

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schoolwave/schoolwave-go/internal/api"
)

func TestQuestionsHidesAnonymousAsker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asked/u1" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{"items":[
			{"id":1,"toUserId":"u1","content":"hi","status":"pending","anonymous":true},
			{"id":2,"toUserId":"u1","content":"yo","status":"answered","anonymous":false,"askerName":"B","answer":"sup"}
		],"nextCursor":""}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL), nil)
	page, err := svc.Questions(context.Background(), "u1", "", 20)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d questions, want 2", len(page.Items))
	}

	anon := page.Items[0]
	if !anon.Anonymous || anon.AskerName != "" {
		t.Errorf("anonymous question leaked asker: %+v", anon)
	}
	named := page.Items[1]
	if named.Status != StatusAnswered || named.Answer == nil || *named.Answer != "sup" {
		t.Errorf("answered question = %+v", named)
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["content"] != "what school?" || req["anonymous"] != true {
			t.Errorf("request = %v", req)
		}
		w.Write([]byte(`{"data":{"id":3,"toUserId":"u1","content":"what school?","status":"pending","anonymous":true}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL), nil)
	q, err := svc.Ask(context.Background(), "u1", "what school?", true)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if q.ID != 3 || q.Status != StatusPending {
		t.Errorf("question = %+v", q)
	}
}

func TestAskEmptyContent(t *testing.T) {
	svc := NewService(api.NewClient("http://unreachable.invalid"), nil)
	if _, err := svc.Ask(context.Background(), "u1", "", true); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestAnswerAndDecline(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data":{"id":7,"status":"answered","answer":"yes"}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL), nil)
	ctx := context.Background()

	q, err := svc.Answer(ctx, 7, "yes")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if q.Status != StatusAnswered {
		t.Errorf("status = %q, want answered", q.Status)
	}
	if err := svc.Decline(ctx, 8); err != nil {
		t.Fatalf("Decline: %v", err)
	}

	want := []string{"/asked/questions/7/answer", "/asked/questions/8/decline"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], p)
		}
	}
}
