package generate

import "errors"

var (
	// ErrNoCode is returned when a reply contains no usable source.
	ErrNoCode = errors.New("generation returned no code")

	// ErrEmptyReply is returned by completers when the model answers with
	// no text.
	ErrEmptyReply = errors.New("empty model reply")

	// ErrOffline is returned by Static for requests it cannot answer.
	ErrOffline = errors.New("generation is offline")

	// ErrUnknownProvider is returned by NewCompleter for unsupported
	// provider names.
	ErrUnknownProvider = errors.New("unknown generation provider")

	// ErrMissingAPIKey is returned by NewCompleter when a hosted provider
	// has no key.
	ErrMissingAPIKey = errors.New("missing API key")
)
