package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractJSON returns the contents of the first ```json fence, or of the
// first plain ``` fence when there is no json fence. The fence must be
// closed.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "```json")
	if start >= 0 {
		start += len("```json")
	} else {
		start = strings.Index(text, "```")
		if start < 0 {
			return "", false
		}
		start += len("```")
	}

	end := strings.Index(text[start:], "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[start : start+end]), true
}

// DecodeJSON extracts the fenced JSON block from a reply and decodes it
// into v.
func DecodeJSON(reply string, v any) error {
	raw, ok := ExtractJSON(reply)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode JSON block: %w", err)
	}
	return nil
}

// AskJSON sends req and decodes the fenced JSON reply into v. Malformed
// replies are retried until maxAttempts tries have been made; transport
// errors and context cancellation end the loop at once.
func AskJSON(ctx context.Context, c Completer, req Request, maxAttempts int, v any) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := c.Complete(ctx, req)
		if err != nil {
			return err
		}
		if err := DecodeJSON(reply, v); err != nil {
			lastErr = fmt.Errorf("attempt %d of %d: %w", attempt, maxAttempts, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return lastErr
}

// IsMalformed reports whether err came from an unusable reply rather than
// the transport.
func IsMalformed(err error) bool {
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	return errors.Is(err, ErrNoJSON) || errors.Is(err, ErrEmptyResponse) || errors.As(err, &se) || errors.As(err, &te)
}
