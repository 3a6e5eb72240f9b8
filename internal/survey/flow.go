// Package survey implements the fixed six-step book survey state machine.
//
// Each session moves through the steps in models.StepOrder exactly once;
// the step a session expects next is recorded on the session itself, and
// answers arriving for any other step are rejected rather than applied.
package survey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookforge/BookForge/internal/models"
	"github.com/bookforge/BookForge/internal/store"
)

// Flow-level sentinel errors.
var (
	// ErrNoSession means a step event arrived for a user with no active
	// session (step performed before begin).
	ErrNoSession = errors.New("no active survey session")
	// ErrOutOfOrder means an answer arrived for a step the session is not
	// currently expecting.
	ErrOutOfOrder = errors.New("survey step out of order")
	// ErrIncomplete means a submission was attempted on a session that is
	// missing required fields.
	ErrIncomplete = errors.New("survey session incomplete")
)

// Flow advances survey sessions through the fixed step order. It owns the
// step-order discipline; the session store is injected at construction.
type Flow struct {
	store store.Store
}

// NewFlow creates a Flow backed by the given session store.
func NewFlow(st store.Store) *Flow {
	slog.Debug("Creating survey Flow")
	return &Flow{store: st}
}

// Begin starts a fresh survey for the user, discarding any prior answers.
// Used by both the begin command and the Edit action.
func (f *Flow) Begin(userID string) *models.SurveySession {
	s := models.NewSurveySession(userID)
	f.store.Set(s)
	slog.Info("Survey begun", "user_id", userID)
	return s
}

// SubmitBookDetails records the modal answers of the first step and advances
// the session. AdditionalPrompt may be blank.
func (f *Flow) SubmitBookDetails(userID, title, length, additionalPrompt string) (*models.SurveySession, error) {
	s, err := f.expect(userID, models.StepBookDetails)
	if err != nil {
		return nil, err
	}
	s.BookTitle = title
	s.BookLength = length
	s.AdditionalPrompt = additionalPrompt
	f.advance(s, models.StepBookDetails)
	return s, nil
}

// SubmitChoice records a single-valued answer (select menu or button) for
// the given step and advances the session.
func (f *Flow) SubmitChoice(userID string, step models.SurveyStep, value string) (*models.SurveySession, error) {
	s, err := f.expect(userID, step)
	if err != nil {
		return nil, err
	}
	switch step {
	case models.StepWritingStyle:
		s.WritingStyle = value
	case models.StepBotMode:
		s.DiscordBotMode = value
	case models.StepEngagement:
		s.UserEngagementLevel = value
	case models.StepBookFormat:
		s.BookFormat = value
	case models.StepCitationFormat:
		s.CitationFormat = value
	default:
		return nil, fmt.Errorf("step %s does not take a single choice", step)
	}
	f.advance(s, step)
	return s, nil
}

// Session returns the user's current session, or ErrNoSession.
func (f *Flow) Session(userID string) (*models.SurveySession, error) {
	s, ok := f.store.Get(userID)
	if !ok {
		return nil, fmt.Errorf("%w for user %s", ErrNoSession, userID)
	}
	return s, nil
}

// expect fetches the session and verifies it is waiting on the given step.
func (f *Flow) expect(userID string, step models.SurveyStep) (*models.SurveySession, error) {
	s, ok := f.store.Get(userID)
	if !ok {
		slog.Warn("Survey step without session", "user_id", userID, "step", step)
		return nil, fmt.Errorf("%w for user %s", ErrNoSession, userID)
	}
	if s.Step != step {
		slog.Warn("Survey step out of order", "user_id", userID, "got", step, "expected", s.Step)
		return nil, fmt.Errorf("%w: got %s, expected %s", ErrOutOfOrder, step, s.Step)
	}
	return s, nil
}

// advance moves the session to the step after the one just answered and
// writes it back to the store.
func (f *Flow) advance(s *models.SurveySession, answered models.SurveyStep) {
	s.Step = models.NextStep(answered)
	f.store.Set(s)
	slog.Debug("Survey step recorded", "user_id", s.UserID, "answered", answered, "next", s.Step)
}

// Summary renders the human-readable review of all collected answers shown
// on the confirm screen. A blank optional prompt is omitted.
func Summary(s *models.SurveySession) string {
	var b strings.Builder
	b.WriteString("You have selected the following parameters:\n")
	fmt.Fprintf(&b, "Book Title: %s\n", s.BookTitle)
	fmt.Fprintf(&b, "Book Length, words: %s\n", s.BookLength)
	if s.AdditionalPrompt != "" {
		fmt.Fprintf(&b, "Additional Prompt: %s\n", s.AdditionalPrompt)
	}
	fmt.Fprintf(&b, "Writing Style: %s\n", s.WritingStyle)
	fmt.Fprintf(&b, "Discord Bot Mode: %s\n", s.DiscordBotMode)
	fmt.Fprintf(&b, "User Engagement Level: %s\n", s.UserEngagementLevel)
	fmt.Fprintf(&b, "Book Format: %s\n", s.BookFormat)
	fmt.Fprintf(&b, "Citation Format: %s\n", s.CitationFormat)
	return b.String()
}
