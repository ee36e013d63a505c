package journey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/journey/pkg/errors"
)

// ParseError reports candidate text that could not be decoded into nodes.
// It carries both the raw text and the text after fence stripping so callers
// can show what the decoder actually saw.
type ParseError struct {
	Raw     string
	Cleaned string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse journey: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code reports [errors.ErrCodeParse] so coded-error helpers recognise it.
func (e *ParseError) Code() errors.Code { return errors.ErrCodeParse }

// StripFences trims surrounding whitespace and removes a leading fence line
// (three backticks with an optional language tag) and a trailing fence.
// A fence on a single line ("```json [...]```") loses its tag too.
// Text without fences is returned trimmed.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), isTagRune)
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_+.", r)
}

type nodesEnvelope struct {
	Nodes []Node `json:"nodes"`
}

// Parse decodes candidate text into nodes.
//
// The text may be wrapped in a fenced code block. Both a bare JSON array of
// nodes and an object with a "nodes" array are accepted. Unknown node types,
// malformed JSON and an object without a "nodes" field all yield a
// *ParseError; nothing is coerced.
func Parse(text string) ([]Node, error) {
	cleaned := StripFences(text)
	fail := func(err error) error {
		return &ParseError{Raw: text, Cleaned: cleaned, Err: err}
	}

	data := []byte(cleaned)
	switch {
	case len(data) == 0:
		return nil, fail(fmt.Errorf("empty input"))
	case data[0] == '[':
		var nodes []Node
		if err := decodeStrict(data, &nodes); err != nil {
			return nil, fail(err)
		}
		return normalize(nodes), nil
	case data[0] == '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fail(err)
		}
		if _, ok := raw["nodes"]; !ok {
			return nil, fail(fmt.Errorf("object has no \"nodes\" field"))
		}
		var env nodesEnvelope
		if err := decodeStrict(data, &env); err != nil {
			return nil, fail(err)
		}
		return normalize(env.Nodes), nil
	default:
		return nil, fail(fmt.Errorf("expected JSON array or object, got %q", firstRune(cleaned)))
	}
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data")
	}
	return nil
}

// normalize replaces nil connection lists with empty ones so serialized
// output always carries "connections": [].
func normalize(nodes []Node) []Node {
	if nodes == nil {
		return []Node{}
	}
	for i := range nodes {
		if nodes[i].Connections == nil {
			nodes[i].Connections = []string{}
		}
	}
	return nodes
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
