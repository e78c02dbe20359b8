// Package render turns records into document text. Templates are tokenized
// once; rendering is a single pass over the compiled segments, so a
// substituted value is never scanned for further tokens.
package render

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownToken is returned by Compile for tokens outside the allowed set.
	ErrUnknownToken = errors.New("unknown template token")
	// ErrUnresolvedToken is returned by Execute when a token has no value.
	ErrUnresolvedToken = errors.New("unresolved template token")
	// ErrUnknownType means no template or layout exists for the record type.
	ErrUnknownType = errors.New("unknown document type")
)

type segment struct {
	text  string
	token bool
}

// Template is a tokenized template.
type Template struct {
	segments []segment
	tokens   []string
}

// Compile tokenizes tpl. Every {TOKEN} must appear in known; brace pairs that
// are not token-shaped are kept as literal text.
func Compile(tpl string, known map[string]bool) (*Template, error) {
	t := &Template{}
	seen := make(map[string]bool)
	var lit strings.Builder
	rest := tpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			lit.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			lit.WriteString(rest)
			break
		}
		name := rest[open+1 : open+end]
		if !isTokenName(name) {
			lit.WriteString(rest[:open+1])
			rest = rest[open+1:]
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("%w: {%s}", ErrUnknownToken, name)
		}
		lit.WriteString(rest[:open])
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
		t.segments = append(t.segments, segment{text: name, token: true})
		if !seen[name] {
			seen[name] = true
			t.tokens = append(t.tokens, name)
		}
		rest = rest[open+end+1:]
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}
	return t, nil
}

// MustCompile is Compile for package-level templates.
func MustCompile(tpl string, known map[string]bool) *Template {
	t, err := Compile(tpl, known)
	if err != nil {
		panic(err)
	}
	return t
}

// Tokens lists the distinct tokens in order of first use.
func (t *Template) Tokens() []string {
	return append([]string(nil), t.tokens...)
}

// Execute replaces every token occurrence with its value.
func (t *Template) Execute(values map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		if !seg.token {
			b.WriteString(seg.text)
			continue
		}
		v, ok := values[seg.text]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUnresolvedToken, seg.text)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

func isTokenName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
