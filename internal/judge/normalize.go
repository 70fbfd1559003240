package judge

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	commaSpaceRe = regexp.MustCompile(`,\s+`)
	colonSpaceRe = regexp.MustCompile(`:\s+`)
	trueRe       = regexp.MustCompile(`(?i)\btrue\b`)
	falseRe      = regexp.MustCompile(`(?i)\bfalse\b`)
)

// Normalize canonicalizes program output so structurally equal values
// compare equal despite formatting drift. Multi-line output collapses to
// the last non-blank line (anything before is assumed to be incidental
// logging). Structured values re-serialize compactly, so "[1, 2]" and
// "[1,2]" meet in the middle and True/None become true/null. Text that
// parses neither as JSON nor as a value literal gets a lighter regex
// cleanup instead of being rejected.
func Normalize(output string) string {
	s := strings.TrimSpace(output)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			s = t
			break
		}
	}

	if canon, ok := canonicalJSON(s); ok {
		return canon
	}
	if v, err := parseLiteral(s); err == nil {
		if canon, err := marshalCompact(v); err == nil {
			return canon
		}
	}

	s = commaSpaceRe.ReplaceAllString(s, ",")
	s = colonSpaceRe.ReplaceAllString(s, ":")
	s = trueRe.ReplaceAllString(s, "true")
	s = falseRe.ReplaceAllString(s, "false")
	return strings.TrimSpace(s)
}

// canonicalJSON re-serializes valid JSON in compact form. Numbers keep
// their source representation (UseNumber) and map keys sort, so the result
// is stable under repeated normalization.
func canonicalJSON(s string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	// Reject multi-document input like "1 2".
	if dec.More() {
		return "", false
	}
	canon, err := marshalCompact(v)
	if err != nil {
		return "", false
	}
	return canon, true
}

func marshalCompact(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
