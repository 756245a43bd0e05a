// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSerperSearchRequest(t *testing.T) {
	var capturedReq *http.Request
	var capturedBody serperRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		json.NewDecoder(r.Body).Decode(&capturedBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organic":[]}`)
	}))
	defer ts.Close()

	old := serperSearchBase
	serperSearchBase = ts.URL
	defer func() { serperSearchBase = old }()

	cfg := testCfg()
	cfg.UserAgent = "article-engine/test"

	b := &SerperBackend{Client: ts.Client()}
	_, err := b.Search(context.Background(), "AI in Healthcare trends applications", cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if capturedReq.Method != http.MethodPost {
		t.Errorf("method = %q, want POST", capturedReq.Method)
	}
	if got := capturedReq.Header.Get("X-API-KEY"); got != "test-key" {
		t.Errorf("X-API-KEY header = %q, want %q", got, "test-key")
	}
	if got := capturedReq.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type header = %q", got)
	}
	if capturedBody.Q != "AI in Healthcare trends applications" {
		t.Errorf("q = %q", capturedBody.Q)
	}
	if capturedBody.Num != 3 {
		t.Errorf("num = %d, want 3", capturedBody.Num)
	}
}

func TestSerperSearchParsesOrganicResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organic":[
			{"title":"First","snippet":"one","link":"https://a.example"},
			{"title":"Second","snippet":"two","link":"https://b.example"}
		],"peopleAlsoAsk":[{"question":"ignored"}]}`)
	}))
	defer ts.Close()

	old := serperSearchBase
	serperSearchBase = ts.URL
	defer func() { serperSearchBase = old }()

	b := &SerperBackend{Client: ts.Client()}
	hits, err := b.Search(context.Background(), "q", testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Title != "First" || hits[0].Snippet != "one" || hits[0].Link != "https://a.example" {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].Title != "Second" {
		t.Errorf("unexpected second hit: %+v", hits[1])
	}
}

func TestSerperSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusForbidden, `{"message":"forbidden"}`, "HTTP 403"},
		{"malformed body", http.StatusOK, `{not json`, "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			old := serperSearchBase
			serperSearchBase = ts.URL
			defer func() { serperSearchBase = old }()

			b := &SerperBackend{Client: ts.Client()}
			_, err := b.Search(context.Background(), "q", testCfg())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
