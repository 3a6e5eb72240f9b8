package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/bookforge/BookForge/internal/document"
	"github.com/bookforge/BookForge/internal/models"
	"github.com/bookforge/BookForge/internal/store"
	"github.com/bookforge/BookForge/internal/survey"
	"github.com/bookforge/BookForge/internal/webhook"
)

// eventKind classifies an inbound interaction for routing.
type eventKind int

const (
	kindCommand eventKind = iota
	kindModal
	kindSelect
	kindButton
)

// routeKey addresses one handler in the dispatch table: the interaction
// kind plus the control ID the platform echoes back (the command name for
// command interactions).
type routeKey struct {
	kind      eventKind
	controlID string
}

// responder is the slice of the Discord session the dispatcher needs to
// answer interactions. *discordgo.Session satisfies it; tests substitute a
// recording fake.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type handlerFunc func(ctx context.Context, r responder, i *discordgo.InteractionCreate) error

// Dispatcher routes inbound interactions to the survey flow, the submission
// gateway and the document assembler.
type Dispatcher struct {
	flow      *survey.Flow
	store     store.Store
	gateway   *webhook.Client
	assembler *document.Assembler
	routes    map[routeKey]handlerFunc

	// inflight guards against a double Apply racing the webhook round trip
	// for the same user. Events for different users never contend beyond
	// this map's mutex.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewDispatcher wires the routing table. Each (event kind, control ID) pair
// maps to exactly one handler; everything else is logged and ignored.
func NewDispatcher(flow *survey.Flow, st store.Store, gateway *webhook.Client, assembler *document.Assembler) *Dispatcher {
	d := &Dispatcher{
		flow:      flow,
		store:     st,
		gateway:   gateway,
		assembler: assembler,
		inflight:  make(map[string]struct{}),
	}
	d.routes = map[routeKey]handlerFunc{
		{kindCommand, "ping"}:  d.handlePing,
		{kindCommand, "begin"}: d.handleBegin,

		{kindModal, survey.ControlBookDetailsModal}: d.handleBookDetails,

		{kindSelect, survey.ControlWritingStyleSelect}: d.selectHandler(models.StepWritingStyle),
		{kindSelect, survey.ControlBookFormatSelect}:   d.selectHandler(models.StepBookFormat),
		{kindSelect, survey.ControlCitationSelect}:     d.selectHandler(models.StepCitationFormat),

		{kindButton, survey.ControlBrainstormMode}: d.choiceButtonHandler(models.StepBotMode),
		{kindButton, survey.ControlWriterMode}:     d.choiceButtonHandler(models.StepBotMode),
		{kindButton, survey.ControlLowEngagement}:  d.choiceButtonHandler(models.StepEngagement),
		{kindButton, survey.ControlHighEngagement}: d.choiceButtonHandler(models.StepEngagement),

		{kindButton, survey.ControlApplyButton}: d.handleApply,
		{kindButton, survey.ControlEditButton}:  d.handleEdit,
	}
	return d
}

// HandleInteraction is the single entry point for all gateway events. A
// panic in one handler must not take down the process or other users'
// sessions, so it is recovered and logged here.
func (d *Dispatcher) HandleInteraction(ctx context.Context, r responder, i *discordgo.InteractionCreate) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Dispatcher recovered from handler panic", "panic", rec, "user_id", interactionUserID(i))
		}
	}()

	key, ok := classify(i)
	if !ok {
		slog.Debug("Dispatcher ignoring interaction type", "type", i.Type)
		return
	}
	handler, ok := d.routes[key]
	if !ok {
		slog.Warn("Dispatcher no route for control", "kind", key.kind, "control_id", key.controlID)
		return
	}

	slog.Debug("Dispatcher routing interaction", "control_id", key.controlID, "user_id", interactionUserID(i))
	if err := handler(ctx, r, i); err != nil {
		slog.Error("Dispatcher handler failed", "control_id", key.controlID, "user_id", interactionUserID(i), "error", err)
	}
}

// classify derives the route key from an interaction.
func classify(i *discordgo.InteractionCreate) (routeKey, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return routeKey{kindCommand, i.ApplicationCommandData().Name}, true
	case discordgo.InteractionModalSubmit:
		return routeKey{kindModal, i.ModalSubmitData().CustomID}, true
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		if data.ComponentType == discordgo.SelectMenuComponent {
			return routeKey{kindSelect, data.CustomID}, true
		}
		return routeKey{kindButton, data.CustomID}, true
	default:
		return routeKey{}, false
	}
}

// interactionUserID resolves the acting user, covering both guild members
// and direct messages.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (d *Dispatcher) handlePing(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: "pong!!!"},
	})
}

// handleBegin starts a fresh survey and opens the book-details modal.
func (d *Dispatcher) handleBegin(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	d.flow.Begin(interactionUserID(i))
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: renderModal(survey.PromptFor(models.StepBookDetails)),
	})
}

// handleEdit restarts the survey from the summary screen. Showing the modal
// is itself the interaction response, so the summary message stays as is.
func (d *Dispatcher) handleEdit(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	return d.handleBegin(ctx, r, i)
}

// handleBookDetails records the modal answers and replies with the next
// prompt. A modal submission cannot update the prior message, so this is a
// fresh ephemeral reply; all later steps update it in place.
func (d *Dispatcher) handleBookDetails(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	values := modalValues(i.ModalSubmitData())
	s, err := d.flow.SubmitBookDetails(
		interactionUserID(i),
		values[survey.ControlBookTitleInput],
		values[survey.ControlBookLengthInput],
		values[survey.ControlExtraPromptInput],
	)
	if err != nil {
		return d.respondFlowError(r, i, err)
	}

	content, components := renderPrompt(survey.PromptFor(s.Step))
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// selectHandler builds the handler for a select-menu step: record the single
// selected value and advance.
func (d *Dispatcher) selectHandler(step models.SurveyStep) handlerFunc {
	return func(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
		data := i.MessageComponentData()
		if len(data.Values) != 1 {
			return fmt.Errorf("select %s delivered %d values", data.CustomID, len(data.Values))
		}
		return d.recordChoice(r, i, step, data.Values[0])
	}
}

// choiceButtonHandler builds the handler for a button-pair step: the clicked
// control ID resolves to its answer value within the step's prompt.
func (d *Dispatcher) choiceButtonHandler(step models.SurveyStep) handlerFunc {
	return func(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
		controlID := i.MessageComponentData().CustomID
		value, ok := survey.ButtonValue(step, controlID)
		if !ok {
			return fmt.Errorf("button %s is not part of step %s", controlID, step)
		}
		return d.recordChoice(r, i, step, value)
	}
}

// recordChoice advances the flow and updates the ephemeral survey message in
// place with the next prompt, or with the summary screen after the final step.
func (d *Dispatcher) recordChoice(r responder, i *discordgo.InteractionCreate, step models.SurveyStep, value string) error {
	s, err := d.flow.SubmitChoice(interactionUserID(i), step, value)
	if err != nil {
		return d.respondFlowError(r, i, err)
	}

	var content string
	var components []discordgo.MessageComponent
	if s.Step == models.StepSummary {
		content = survey.Summary(s)
		components = summaryComponents()
	} else {
		content, components = renderPrompt(survey.PromptFor(s.Step))
	}
	return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
}

// handleApply confirms the survey: it locks out a second Apply for the same
// user, swaps the summary for a progress notice, submits to the workflow,
// assembles the document, and follows up with the file or a categorized
// error. The session is cleared only after a successful delivery.
func (d *Dispatcher) handleApply(ctx context.Context, r responder, i *discordgo.InteractionCreate) error {
	userID := interactionUserID(i)
	if !d.tryAcquire(userID) {
		slog.Warn("Dispatcher duplicate Apply while submission in flight", "user_id", userID)
		return r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Already working on your book, hold on.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
	defer d.release(userID)

	s, err := d.flow.Session(userID)
	if err != nil {
		return d.respondFlowError(r, i, err)
	}
	if !s.Complete() {
		return d.respondFlowError(r, i, survey.ErrIncomplete)
	}

	if err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Sending data...",
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		return fmt.Errorf("acknowledging apply: %w", err)
	}

	if err := d.submit(ctx, r, i, s); err != nil {
		slog.Error("Dispatcher submission failed", "user_id", userID, "error", err)
		_, followErr := r.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: models.UserMessage(err),
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if followErr != nil {
			return fmt.Errorf("reporting submission failure: %w", followErr)
		}
		return err
	}

	d.store.Delete(userID)
	slog.Info("Dispatcher survey completed and session cleared", "user_id", userID)
	return nil
}

// submit runs the webhook round trip and document assembly and delivers the
// attachment. The channel ID is the correlation identifier the workflow uses
// to disambiguate concurrent conversations.
func (d *Dispatcher) submit(ctx context.Context, r responder, i *discordgo.InteractionCreate, s *models.SurveySession) error {
	text, err := d.gateway.Submit(ctx, s, i.ChannelID)
	if err != nil {
		return err
	}

	format := models.BookFormat(s.BookFormat)
	data, err := d.assembler.Assemble(ctx, format, s.BookTitle, text)
	if err != nil {
		return err
	}

	_, err = r.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: "✅ Here is your book",
		Flags:   discordgo.MessageFlagsEphemeral,
		Files: []*discordgo.File{{
			Name:        d.assembler.Filename(s.BookTitle, format),
			ContentType: "application/octet-stream",
			Reader:      bytes.NewReader(data),
		}},
	})
	if err != nil {
		return fmt.Errorf("delivering attachment: %w", err)
	}
	return nil
}

// respondFlowError answers protocol violations (no session, out-of-order
// step, incomplete submit) with a short ephemeral notice.
func (d *Dispatcher) respondFlowError(r responder, i *discordgo.InteractionCreate, err error) error {
	var content string
	switch {
	case errors.Is(err, survey.ErrNoSession):
		content = "No survey in progress. Use /begin to start one."
	case errors.Is(err, survey.ErrOutOfOrder):
		content = "That answer arrived out of order. Use /begin to restart the survey."
	case errors.Is(err, survey.ErrIncomplete):
		content = "The survey is not finished yet. Use /begin to restart it."
	default:
		content = models.UserMessage(err)
	}
	if respondErr := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	}); respondErr != nil {
		return fmt.Errorf("reporting flow error %v: %w", err, respondErr)
	}
	return err
}

func (d *Dispatcher) tryAcquire(userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[userID]; busy {
		return false
	}
	d.inflight[userID] = struct{}{}
	return true
}

func (d *Dispatcher) release(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, userID)
}
