package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidResponse is returned when the model answers with content
	// that cannot be parsed into the expected JSON shape.
	ErrInvalidResponse = errors.New("invalid response from LLM")

	// ErrContentBlocked is returned when the model refuses to answer
	// because of its safety filters.
	ErrContentBlocked = errors.New("content blocked by LLM safety filters")

	// ErrEmptyPrompt is returned when a request would be sent with no
	// prompt text.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
