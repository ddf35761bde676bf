// Package changecodec serializes the (field, newValue) pair stored inside a
// profile change request, and decodes it back at review time.
//
// Decode runs a narrow textual repair pass before strict JSON parsing:
// payloads written by older clients sometimes arrive with stray line breaks
// and irregular whitespace around delimiters. The repair step fixes exactly
// those defects and nothing else. Known limitation: because the repair is
// purely textual, a newValue that legitimately contains line breaks or
// deliberately spaced punctuation around ':' or '","' will be altered too.
package changecodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedPayload is returned when the encoded change cannot be parsed
// even after the repair pass. The caller must not infer a (field, newValue)
// pair from such a payload.
var ErrMalformedPayload = errors.New("malformed change payload")

// Change is the decoded (field, newValue) pair. NewValue is a string for
// text fields, float64 for numeric JSON values, or the verbatim reference
// id for position/department/enum fields.
type Change struct {
	Field    string      `json:"field"`
	NewValue interface{} `json:"newValue"`
}

var (
	lineBreakRe    = regexp.MustCompile(`(\r\n|\n|\r)`)
	quoteCommaRe   = regexp.MustCompile(`"\s*,\s*"`)
	colonSpacingRe = regexp.MustCompile(`\s*:\s*`)
)

// Encode serializes a proposed change into the string persisted on the
// change request. No validation happens here: an unsupported field name is
// stored as-is and only rejected when a reviewer attempts to approve it.
func Encode(field string, newValue interface{}) (string, error) {
	raw, err := json.Marshal(Change{Field: field, NewValue: newValue})
	if err != nil {
		return "", fmt.Errorf("encode change: %w", err)
	}
	return string(raw), nil
}

// Decode repairs the known corruption patterns and parses the payload.
// Repair order matters: line breaks go first so the delimiter patterns
// match on a single line.
func Decode(raw string) (Change, error) {
	repaired := lineBreakRe.ReplaceAllString(raw, "")
	repaired = strings.TrimSpace(repaired)
	repaired = quoteCommaRe.ReplaceAllString(repaired, `","`)
	repaired = colonSpacingRe.ReplaceAllString(repaired, ":")

	var change Change
	if err := json.Unmarshal([]byte(repaired), &change); err != nil {
		return Change{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if change.Field == "" {
		return Change{}, fmt.Errorf("%w: missing field key", ErrMalformedPayload)
	}
	return change, nil
}
