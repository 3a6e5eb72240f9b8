package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNextStepOrder(t *testing.T) {
	got := []SurveyStep{StepBookDetails}
	for {
		next := NextStep(got[len(got)-1])
		got = append(got, next)
		if next == StepSummary {
			break
		}
	}
	want := append(append([]SurveyStep{}, StepOrder...), StepSummary)
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCompleteRequiresAllFields(t *testing.T) {
	s := NewSurveySession("u1")
	if s.Complete() {
		t.Error("empty session reported complete")
	}
	s.BookTitle = "T"
	s.BookLength = "1000"
	s.WritingStyle = "fantasy"
	s.DiscordBotMode = BotModeWriter
	s.UserEngagementLevel = EngagementLow
	s.BookFormat = string(BookFormatEPUB)
	s.CitationFormat = CitationAPA
	if s.Complete() {
		t.Error("session complete before reaching summary step")
	}
	s.Step = StepSummary
	if !s.Complete() {
		t.Error("filled session at summary step not reported complete")
	}
}

func TestIsValidBookFormat(t *testing.T) {
	for _, f := range []BookFormat{BookFormatDOCX, BookFormatPDF, BookFormatEPUB, BookFormatMOBI} {
		if !IsValidBookFormat(f) {
			t.Errorf("format %s should be valid", f)
		}
	}
	if IsValidBookFormat("txt") {
		t.Error("txt should not be a valid format")
	}
}

func TestUserMessageCategories(t *testing.T) {
	wrapped := fmt.Errorf("%w: %w: exec: not found", ErrAssembly, ErrConverterMissing)
	if !errors.Is(wrapped, ErrAssembly) || !errors.Is(wrapped, ErrConverterMissing) {
		t.Fatal("wrapped error lost its categories")
	}
	if msg := UserMessage(wrapped); !strings.Contains(msg, "ebook-convert") {
		t.Errorf("converter-missing message should name the tool, got %q", msg)
	}
	if msg := UserMessage(fmt.Errorf("%w: status 500", ErrUpstream)); strings.Contains(msg, "500") {
		t.Errorf("upstream message should not leak diagnostics, got %q", msg)
	}
}
