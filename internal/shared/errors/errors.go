package errors

import "errors"

var (
	ErrMissingAPIKey           = errors.New("GROQ_API_KEY environment variable is required")
	ErrClassificationExhausted = errors.New("all models failed on all attempts")
	ErrResponseParse           = errors.New("model response is not valid JSON")
	ErrNoContent               = errors.New("no feed content available")
	ErrRequestMalformed        = errors.New("malformed request body")
)
