package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsUnknownToken(t *testing.T) {
	_, err := Compile("Hello {NAME} from {CITY}", map[string]bool{"NAME": true})
	require.ErrorIs(t, err, ErrUnknownToken)
	assert.Contains(t, err.Error(), "{CITY}")
}

func TestCompileKeepsNonTokenBraces(t *testing.T) {
	tpl, err := Compile("{lower} {} {A-B} {NAME}", map[string]bool{"NAME": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"NAME"}, tpl.Tokens())

	out, err := tpl.Execute(map[string]string{"NAME": "x"})
	require.NoError(t, err)
	assert.Equal(t, "{lower} {} {A-B} x", out)
}

func TestExecuteIsSinglePass(t *testing.T) {
	tpl := MustCompile("{A}|{B}|{A}", map[string]bool{"A": true, "B": true})
	out, err := tpl.Execute(map[string]string{"A": "{B}", "B": "b"})
	require.NoError(t, err)
	assert.Equal(t, "{B}|b|{B}", out)
}

func TestExecuteMissingValue(t *testing.T) {
	tpl := MustCompile("x {A}", map[string]bool{"A": true})
	_, err := tpl.Execute(map[string]string{})
	assert.ErrorIs(t, err, ErrUnresolvedToken)
}

func TestUnterminatedBrace(t *testing.T) {
	tpl := MustCompile("a {B", map[string]bool{"B": true})
	out, err := tpl.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, "a {B", out)
}
