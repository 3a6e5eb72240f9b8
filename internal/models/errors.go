// Package models defines the failure taxonomy for BookForge.
package models

import "errors"

// Category sentinel errors. Components wrap these with fmt.Errorf("%w: ...")
// so the dispatcher can map any failure to a user-facing category with
// errors.Is while operators get the full chain in the logs.
var (
	// ErrConfig marks missing required configuration, e.g. the webhook URL.
	ErrConfig = errors.New("configuration error")
	// ErrUpstream marks workflow webhook failures: transport errors,
	// non-success status codes, or malformed response bodies.
	ErrUpstream = errors.New("upstream workflow error")
	// ErrAssembly marks document construction failures.
	ErrAssembly = errors.New("document assembly error")
	// ErrConverterMissing marks an absent external EPUB-to-MOBI converter.
	// Always wrapped together with ErrAssembly.
	ErrConverterMissing = errors.New("ebook-convert executable not found")
)

// UserMessage maps an error to the friendly text shown to the requesting
// user. Internal diagnostic detail stays in the logs.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrConverterMissing):
		return "MOBI output requires the ebook-convert tool (part of Calibre) to be installed on the bot host. Please pick another format or ask the operator to install Calibre."
	case errors.Is(err, ErrAssembly):
		return "Your book text was generated, but building the document file failed. Please try again or pick another format."
	case errors.Is(err, ErrConfig):
		return "The bot is not fully configured yet. Please contact the operator."
	case errors.Is(err, ErrUpstream):
		return "The book generation service could not complete your request. Please try again later."
	default:
		return "An error occurred while processing your request. Please try again."
	}
}
