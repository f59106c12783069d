// Package llm is a small client for a vision-capable language model
// behind the Anthropic Messages API.
//
// Callers send a system prompt, a text summary and optionally a page image,
// and receive the model's text. AskJSON extracts the fenced JSON block the
// prompts ask for and decodes it, retrying a bounded number of times when
// the reply is malformed. Transport failures are reported with sentinel
// errors (ErrTimeout, ErrRateLimited) so callers can degrade instead of
// failing.
package llm
