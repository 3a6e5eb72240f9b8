// Package survey also defines the platform-neutral prompt specifications for
// each step. The Discord layer renders these into actual UI components; the
// flow itself never touches widget types.
package survey

import "github.com/bookforge/BookForge/internal/models"

// Control IDs, stable across restarts. These are the custom IDs the platform
// echoes back on UI events and the dispatcher routes on.
const (
	ControlBookDetailsModal   = "bookDetailsModal"
	ControlBookTitleInput     = "bookTitleInput"
	ControlBookLengthInput    = "bookLengthInput"
	ControlExtraPromptInput   = "additionalPromptInput"
	ControlWritingStyleSelect = "writingStyleSelect"
	ControlBrainstormMode     = "brainstormMode"
	ControlWriterMode         = "writerMode"
	ControlLowEngagement      = "lowEngagement"
	ControlHighEngagement     = "highEngagement"
	ControlBookFormatSelect   = "bookFormatSelect"
	ControlCitationSelect     = "citationFormatSelect"
	ControlApplyButton        = "applyButton"
	ControlEditButton         = "editButton"
)

// PromptKind distinguishes the widget family a step renders as.
type PromptKind int

const (
	// PromptModal is a pop-up form with text inputs.
	PromptModal PromptKind = iota
	// PromptSelect is a single-choice select menu.
	PromptSelect
	// PromptButtons is a row of choice buttons.
	PromptButtons
)

// ButtonStyle mirrors the platform's button accents without depending on it.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// Option is one entry of a select menu.
type Option struct {
	Label       string
	Description string
	Value       string
}

// Button is one button of a button-row prompt. Value is the answer recorded
// when the button is clicked.
type Button struct {
	ControlID string
	Label     string
	Value     string
	Style     ButtonStyle
}

// TextField is one input of a modal prompt.
type TextField struct {
	ControlID string
	Label     string
	Paragraph bool
	Required  bool
}

// PromptSpec describes the UI payload for one survey step.
type PromptSpec struct {
	Step      models.SurveyStep
	ControlID string
	Title     string // modal title or message content
	Kind      PromptKind
	Fields    []TextField // PromptModal only
	Options   []Option    // PromptSelect only
	Buttons   []Button    // PromptButtons only
}

// PromptFor returns the prompt specification for a data-entry step. The
// summary screen is rendered separately from the session itself.
func PromptFor(step models.SurveyStep) PromptSpec {
	switch step {
	case models.StepBookDetails:
		return PromptSpec{
			Step:      step,
			ControlID: ControlBookDetailsModal,
			Title:     "Survey: Book Details",
			Kind:      PromptModal,
			Fields: []TextField{
				{ControlID: ControlBookTitleInput, Label: "Book Title", Required: true},
				{ControlID: ControlBookLengthInput, Label: "Book Length (number of words)", Required: true},
				{ControlID: ControlExtraPromptInput, Label: "Additional Prompt (optional)", Paragraph: true},
			},
		}
	case models.StepWritingStyle:
		return PromptSpec{
			Step:      step,
			ControlID: ControlWritingStyleSelect,
			Title:     "Select a writing style:",
			Kind:      PromptSelect,
			Options: []Option{
				{Label: "Science Fiction", Description: "Focuses on technology, the future, and space.", Value: "sci_fi"},
				{Label: "Fantasy", Description: "Based on magic, mythical creatures, and imaginary worlds.", Value: "fantasy"},
				{Label: "Mystery/Detective", Description: "Solving crimes and unraveling secrets.", Value: "mystery_detective"},
				{Label: "Romance", Description: "Relationships and emotions between characters.", Value: "romance"},
				{Label: "Historical", Description: "Events based on real history.", Value: "historical"},
			},
		}
	case models.StepBotMode:
		return PromptSpec{
			Step:  step,
			Title: "Select Discord Bot Mode:",
			Kind:  PromptButtons,
			Buttons: []Button{
				{ControlID: ControlBrainstormMode, Label: "Brainstorm Mode", Value: models.BotModeBrainstorm, Style: ButtonPrimary},
				{ControlID: ControlWriterMode, Label: "Writer Mode", Value: models.BotModeWriter, Style: ButtonSecondary},
			},
		}
	case models.StepEngagement:
		return PromptSpec{
			Step:  step,
			Title: "Select User Engagement Level:",
			Kind:  PromptButtons,
			Buttons: []Button{
				{ControlID: ControlLowEngagement, Label: "Low Engagement Level", Value: models.EngagementLow, Style: ButtonSuccess},
				{ControlID: ControlHighEngagement, Label: "High Engagement Level", Value: models.EngagementHigh, Style: ButtonPrimary},
			},
		}
	case models.StepBookFormat:
		return PromptSpec{
			Step:      step,
			ControlID: ControlBookFormatSelect,
			Title:     "Select book format:",
			Kind:      PromptSelect,
			Options: []Option{
				{Label: "DOCX", Value: string(models.BookFormatDOCX)},
				{Label: "PDF", Value: string(models.BookFormatPDF)},
				{Label: "EPUB", Value: string(models.BookFormatEPUB)},
				{Label: "MOBI", Value: string(models.BookFormatMOBI)},
			},
		}
	case models.StepCitationFormat:
		return PromptSpec{
			Step:      step,
			ControlID: ControlCitationSelect,
			Title:     "Select citation format:",
			Kind:      PromptSelect,
			Options: []Option{
				{Label: "APA", Value: models.CitationAPA},
				{Label: "MLA", Value: models.CitationMLA},
				{Label: "Chicago", Value: models.CitationChicago},
			},
		}
	default:
		// Summary and unknown steps have no prompt of their own.
		return PromptSpec{Step: step}
	}
}

// ButtonValue resolves a clicked button control ID to its recorded answer
// value within the given step's prompt.
func ButtonValue(step models.SurveyStep, controlID string) (string, bool) {
	for _, b := range PromptFor(step).Buttons {
		if b.ControlID == controlID {
			return b.Value, true
		}
	}
	return "", false
}
