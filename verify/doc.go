// Package verify checks a deterministic drawing scale against an
// independent estimate from a vision language model.
//
// The model reads the title block text and candidate scale strings and
// answers with its own scale factor. Agreement within 5% confirms the
// deterministic scale (within 10% confirms it with a warning). Larger
// disagreement keeps the deterministic scale and records a warning. When
// nothing deterministic was found the model's scale is adopted at medium
// confidence. Any failure talking to the model leaves the deterministic
// scale in place and marks the result unverified; Verify never returns an
// error.
package verify
