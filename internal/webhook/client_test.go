package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/madisonlabs/marketlens/internal/config"
	"github.com/madisonlabs/marketlens/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(url string) *Client {
	cfg := config.WebhookConfig{
		URL:         url,
		HeaderName:  "X-Auth-Token",
		HeaderValue: "s3cret",
		Timeout:     5 * time.Second,
	}
	return NewClient(cfg, &http.Client{}, testLogger())
}

func TestFetch_Success(t *testing.T) {
	var gotHeader, gotContentType string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Auth-Token")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"skill_gaps": ["X", "Y"], "market_trends": "up"}`))
	}))
	defer srv.Close()

	rep, err := testClient(srv.URL).Fetch(context.Background(), model.AnalysisRequest{
		Brand: "Acme",
		Goal:  "grow the data team",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotHeader != "s3cret" {
		t.Errorf("auth header = %q, want s3cret", gotHeader)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody["brand"] != "Acme" || gotBody["goal"] != "grow the data team" {
		t.Errorf("request body = %v", gotBody)
	}

	gaps, ok := rep.StringList("skill_gaps")
	if !ok || len(gaps) != 2 {
		t.Errorf("skill_gaps = %v, %v", gaps, ok)
	}
}

func TestFetch_ValidationErrorMakesNoCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for _, req := range []model.AnalysisRequest{
		{Brand: "", Goal: "grow"},
		{Brand: "  ", Goal: "grow"},
		{Brand: "Acme", Goal: "   "},
	} {
		_, err := c.Fetch(context.Background(), req)
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Fetch(%+v): expected ValidationError, got %v", req, err)
		}
	}

	if calls != 0 {
		t.Errorf("expected no outbound calls for invalid input, got %d", calls)
	}
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), model.AnalysisRequest{Brand: "Acme", Goal: "grow"})
	var terr *model.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Fetch: expected TransportError, got %v", err)
	}
	if terr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", terr.StatusCode)
	}
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := testClient(srv.URL).Fetch(context.Background(), model.AnalysisRequest{Brand: "Acme", Goal: "grow"})
	var terr *model.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Fetch: expected TransportError, got %v", err)
	}
	if terr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for network error", terr.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cfg := config.WebhookConfig{
		URL:         srv.URL,
		HeaderName:  "X-Auth-Token",
		HeaderValue: "s3cret",
		Timeout:     20 * time.Millisecond,
	}
	c := NewClient(cfg, &http.Client{}, testLogger())

	_, err := c.Fetch(context.Background(), model.AnalysisRequest{Brand: "Acme", Goal: "grow"})
	var terr *model.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Fetch: expected TransportError on timeout, got %v", err)
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Fetch(context.Background(), model.AnalysisRequest{Brand: "Acme", Goal: "grow"})
	var perr *model.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Fetch: expected ParseError, got %v", err)
	}
	if perr.Source != "webhook" {
		t.Errorf("Source = %q, want webhook", perr.Source)
	}
}

func TestFetch_EnvelopeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"json": {"recommendations": ["hire"]}}]`))
	}))
	defer srv.Close()

	rep, err := testClient(srv.URL).Fetch(context.Background(), model.AnalysisRequest{Brand: "Acme", Goal: "grow"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, ok := rep.StringList("recommendations"); !ok {
		t.Error("expected recommendations from enveloped response")
	}
}
