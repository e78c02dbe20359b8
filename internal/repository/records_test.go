package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"contracts": KindContract,
		"contract":  KindContract,
		"invoices":  KindInvoice,
		"documents": KindDocument,
	} {
		got, ok := ParseKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseKind("settings")
	assert.False(t, ok)
}
