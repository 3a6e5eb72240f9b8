// Package discord connects BookForge to the Discord gateway: it renders the
// survey's platform-neutral prompt specs into Discord components, routes
// interaction events to the survey flow, and delivers the finished document.
package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/bookforge/BookForge/internal/survey"
)

// renderModal converts a modal prompt spec into an interaction response
// payload, one text input per action row.
func renderModal(spec survey.PromptSpec) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		style := discordgo.TextInputShort
		if f.Paragraph {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID: f.ControlID,
				Label:    f.Label,
				Style:    style,
				Required: f.Required,
			},
		}})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   spec.ControlID,
		Title:      spec.Title,
		Components: rows,
	}
}

// renderPrompt converts a select or button prompt spec into message content
// plus one action row of components.
func renderPrompt(spec survey.PromptSpec) (string, []discordgo.MessageComponent) {
	switch spec.Kind {
	case survey.PromptSelect:
		options := make([]discordgo.SelectMenuOption, 0, len(spec.Options))
		for _, o := range spec.Options {
			options = append(options, discordgo.SelectMenuOption{
				Label:       o.Label,
				Description: o.Description,
				Value:       o.Value,
			})
		}
		row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    spec.ControlID,
				Placeholder: spec.Title,
				Options:     options,
			},
		}}
		return spec.Title, []discordgo.MessageComponent{row}
	case survey.PromptButtons:
		buttons := make([]discordgo.MessageComponent, 0, len(spec.Buttons))
		for _, b := range spec.Buttons {
			buttons = append(buttons, discordgo.Button{
				CustomID: b.ControlID,
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
			})
		}
		return spec.Title, []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
	default:
		return spec.Title, nil
	}
}

// summaryComponents is the Apply/Edit button row shown with the summary.
func summaryComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: survey.ControlApplyButton, Label: "Apply", Style: discordgo.SuccessButton},
		discordgo.Button{CustomID: survey.ControlEditButton, Label: "Edit", Style: discordgo.DangerButton},
	}}}
}

func buttonStyle(s survey.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case survey.ButtonSecondary:
		return discordgo.SecondaryButton
	case survey.ButtonSuccess:
		return discordgo.SuccessButton
	case survey.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// modalValues flattens a modal submission into control ID to entered value.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := make(map[string]string)
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok {
				out[ti.CustomID] = ti.Value
			}
		}
	}
	return out
}
