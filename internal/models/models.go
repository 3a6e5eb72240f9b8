// Package models defines the core data structures for BookForge.
//
// It includes the survey session record, the enumerated survey steps and
// answer values, and the wire types exchanged with the workflow webhook.
// These types are shared across modules.
package models

import "time"

// SurveyStep identifies one stage of the fixed survey sequence.
type SurveyStep string

const (
	// StepBookDetails collects title, length and the optional extra prompt via a modal.
	StepBookDetails SurveyStep = "bookDetails"
	// StepWritingStyle collects the writing style from a select menu.
	StepWritingStyle SurveyStep = "writingStyle"
	// StepBotMode collects the bot mode from a button pair.
	StepBotMode SurveyStep = "botMode"
	// StepEngagement collects the engagement level from a button pair.
	StepEngagement SurveyStep = "engagement"
	// StepBookFormat collects the output document format from a select menu.
	StepBookFormat SurveyStep = "bookFormat"
	// StepCitationFormat collects the citation format from a select menu.
	StepCitationFormat SurveyStep = "citationFormat"
	// StepSummary is the terminal review screen with Apply and Edit actions.
	StepSummary SurveyStep = "summary"
)

// StepOrder is the fixed order of the data-entry steps. StepSummary follows
// the last entry and is not itself a data-entry step.
var StepOrder = []SurveyStep{
	StepBookDetails,
	StepWritingStyle,
	StepBotMode,
	StepEngagement,
	StepBookFormat,
	StepCitationFormat,
}

// NextStep returns the step that follows the given data-entry step.
// The step after the final data-entry step is StepSummary.
func NextStep(step SurveyStep) SurveyStep {
	for i, s := range StepOrder {
		if s == step {
			if i+1 < len(StepOrder) {
				return StepOrder[i+1]
			}
			return StepSummary
		}
	}
	return StepSummary
}

// Bot mode answer values.
const (
	BotModeBrainstorm = "Brainstorm Mode"
	BotModeWriter     = "Writer Mode"
)

// Engagement level answer values.
const (
	EngagementLow  = "Low Engagement Level"
	EngagementHigh = "High Engagement Level"
)

// BookFormat identifies the requested output document format.
type BookFormat string

const (
	// BookFormatDOCX produces a Word document.
	BookFormatDOCX BookFormat = "docx"
	// BookFormatPDF produces a PDF document.
	BookFormatPDF BookFormat = "pdf"
	// BookFormatEPUB produces an EPUB package.
	BookFormatEPUB BookFormat = "epub"
	// BookFormatMOBI produces a MOBI file via an external converter.
	BookFormatMOBI BookFormat = "mobi"
)

// IsValidBookFormat checks whether the given format is supported.
func IsValidBookFormat(f BookFormat) bool {
	switch f {
	case BookFormatDOCX, BookFormatPDF, BookFormatEPUB, BookFormatMOBI:
		return true
	default:
		return false
	}
}

// Citation format answer values.
const (
	CitationAPA     = "apa"
	CitationMLA     = "mla"
	CitationChicago = "chicago"
)

// SurveySession is one user's in-progress or completed survey answers.
// It is keyed by the Discord user ID and owned exclusively by the session
// store; fields are populated strictly in step order.
type SurveySession struct {
	UserID              string     `json:"user_id"`
	Step                SurveyStep `json:"step"` // the step the session expects next
	BookTitle           string     `json:"book_title"`
	BookLength          string     `json:"book_length"`
	AdditionalPrompt    string     `json:"additional_prompt,omitempty"`
	WritingStyle        string     `json:"writing_style"`
	DiscordBotMode      string     `json:"discord_bot_mode"`
	UserEngagementLevel string     `json:"user_engagement_level"`
	BookFormat          string     `json:"book_format"`
	CitationFormat      string     `json:"citation_format"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewSurveySession creates an empty session for the given user, expecting the
// first data-entry step.
func NewSurveySession(userID string) *SurveySession {
	now := time.Now()
	return &SurveySession{
		UserID:    userID,
		Step:      StepBookDetails,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete reports whether every required field has been collected and the
// session is awaiting confirmation. AdditionalPrompt is optional and may be
// blank in a complete session.
func (s *SurveySession) Complete() bool {
	return s.Step == StepSummary &&
		s.BookTitle != "" &&
		s.BookLength != "" &&
		s.WritingStyle != "" &&
		s.DiscordBotMode != "" &&
		s.UserEngagementLevel != "" &&
		s.BookFormat != "" &&
		s.CitationFormat != ""
}

// SubmissionPayload is the JSON body POSTed to the workflow webhook. Field
// names match what the downstream workflow expects. SessionID carries the
// originating channel ID so the workflow can disambiguate concurrent requests
// from different conversations.
type SubmissionPayload struct {
	BookTitle           string `json:"bookTitle"`
	BookLength          string `json:"bookLength"`
	AdditionalPrompt    string `json:"additionalPrompt"`
	WritingStyle        string `json:"writingStyle"`
	DiscordBotMode      string `json:"discordBotMode"`
	UserEngagementLevel string `json:"userEngagementLevel"`
	BookFormat          string `json:"bookFormat"`
	CitationFormat      string `json:"citationFormat"`
	SessionID           string `json:"sessionId"`
}

// PayloadFromSession builds the webhook payload from a completed session and
// the correlation identifier of the originating conversation.
func PayloadFromSession(s *SurveySession, sessionID string) SubmissionPayload {
	return SubmissionPayload{
		BookTitle:           s.BookTitle,
		BookLength:          s.BookLength,
		AdditionalPrompt:    s.AdditionalPrompt,
		WritingStyle:        s.WritingStyle,
		DiscordBotMode:      s.DiscordBotMode,
		UserEngagementLevel: s.UserEngagementLevel,
		BookFormat:          s.BookFormat,
		CitationFormat:      s.CitationFormat,
		SessionID:           sessionID,
	}
}

// WorkflowResponse is the JSON body the workflow webhook replies with. The
// webhook may wrap it in a one-element array; the gateway normalizes both
// shapes to this struct.
type WorkflowResponse struct {
	OK       bool   `json:"ok"`
	BookText string `json:"bookText"`
}
