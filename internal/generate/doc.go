// Package generate turns short descriptions into plugin source using a
// text generation model.
//
// A Generator builds prompts from embedded templates that describe the
// Lua plugin contract and renderer API, sends them to a Completer and
// extracts the Lua code from the reply. Completers exist for Anthropic,
// OpenAI and Google models, plus Static, which answers offline with demo
// plugins.
package generate
