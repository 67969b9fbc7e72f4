package marketintel

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ParseFailure reports that text could not be coerced into JSON after all
// repair attempts. It keeps a bounded sample of the offending text for
// diagnostics.
type ParseFailure struct {
	Sample string
	Err    error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("structural parse failed: %v (sample: %q)", e.Err, e.Sample)
}

func (e *ParseFailure) Unwrap() error { return e.Err }

const parseSampleLen = 200

// SanitizeJSONText repairs near-JSON text into something a strict decoder
// can usually handle: strips markdown fences, drops illegal control
// characters, and escapes raw newlines/tabs that appear inside string
// literals. It never fails; the worst case is returning the input unchanged.
func SanitizeJSONText(raw string) string {
	s := stripFences(raw)
	s = dropControlChars(s)
	s = escapeControlInStrings(s)
	return s
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}

// dropControlChars removes C0/C1 control characters except newline,
// carriage return, and tab, which escapeControlInStrings handles.
func dropControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeControlInStrings escapes raw newline/carriage-return/tab bytes that
// occur inside JSON string literals, where they are illegal. Outside string
// literals they are harmless whitespace and pass through.
func escapeControlInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteRune(r)
				continue
			case r == '\\':
				escaped = true
				b.WriteRune(r)
				continue
			case r == '"':
				inString = false
				b.WriteRune(r)
				continue
			case r == '\n':
				b.WriteString(`\n`)
				continue
			case r == '\r':
				b.WriteString(`\r`)
				continue
			case r == '\t':
				b.WriteString(`\t`)
				continue
			}
			b.WriteRune(r)
			continue
		}
		if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// emergencyRepair flattens every control character to a single space and
// collapses runs of whitespace. Destroys formatting but salvages payloads
// where the generator interleaved garbage bytes.
func emergencyRepair(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// ParseTree decodes untrusted generator text into a generic key-value tree.
// Escalating attempts: strict decode, sanitized decode, emergency
// whitespace repair, and finally jsonrepair. Pure function; callers own
// logging.
func ParseTree(raw string) (map[string]any, error) {
	attempts := []string{
		raw,
		SanitizeJSONText(raw),
		emergencyRepair(SanitizeJSONText(raw)),
	}
	var lastErr error
	for _, text := range attempts {
		tree, err := decodeObject(text)
		if err == nil {
			return tree, nil
		}
		lastErr = err
	}
	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		if tree, err := decodeObject(repaired); err == nil {
			return tree, nil
		}
	}
	return nil, &ParseFailure{Sample: sample(raw), Err: lastErr}
}

func decodeObject(text string) (map[string]any, error) {
	var tree map[string]any
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("decoded to null")
	}
	return tree, nil
}

func sample(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > parseSampleLen {
		return s[:parseSampleLen]
	}
	return s
}
