package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bookforge/BookForge/internal/models"
)

func completedSession() *models.SurveySession {
	s := models.NewSurveySession("u1")
	s.BookTitle = "T"
	s.BookLength = "1000"
	s.WritingStyle = "fantasy"
	s.DiscordBotMode = models.BotModeWriter
	s.UserEngagementLevel = models.EngagementLow
	s.BookFormat = string(models.BookFormatEPUB)
	s.CitationFormat = models.CitationAPA
	s.Step = models.StepSummary
	return s
}

func TestSubmitUnconfiguredEndpoint(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := NewClient() // endpoint deliberately unset
	defer c.Close()

	_, err := c.Submit(context.Background(), completedSession(), "chan1")
	if !errors.Is(err, models.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if requests.Load() != 0 {
		t.Error("no HTTP request may be attempted when the endpoint is unset")
	}
}

func TestSubmitSuccessObject(t *testing.T) {
	var gotPayload models.SubmissionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.WorkflowResponse{OK: true, BookText: "once upon a time"})
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	defer c.Close()

	text, err := c.Submit(context.Background(), completedSession(), "chan1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if text != "once upon a time" {
		t.Errorf("unexpected book text %q", text)
	}
	if gotPayload.BookTitle != "T" || gotPayload.SessionID != "chan1" {
		t.Errorf("payload not built from session: %+v", gotPayload)
	}
	if gotPayload.AdditionalPrompt != "" {
		t.Errorf("blank optional prompt should be sent as empty string, got %q", gotPayload.AdditionalPrompt)
	}
}

func TestSubmitSuccessArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.WorkflowResponse{{OK: true, BookText: "text"}})
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	defer c.Close()

	text, err := c.Submit(context.Background(), completedSession(), "chan1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if text != "text" {
		t.Errorf("unexpected book text %q", text)
	}
}

func TestSubmitNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	defer c.Close()

	if _, err := c.Submit(context.Background(), completedSession(), "chan1"); !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSubmitMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing bookText", `{"ok": true}`},
		{"not ok", `{"ok": false, "bookText": "text"}`},
		{"empty array", `[]`},
		{"not json", `<html>oops</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(WithEndpoint(srv.URL))
			defer c.Close()

			if _, err := c.Submit(context.Background(), completedSession(), "chan1"); !errors.Is(err, models.ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		})
	}
}
