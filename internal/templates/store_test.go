package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsTemplateForEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.ID, func(t *testing.T) {
			tpl := Get(k.ID)
			require.NotEmpty(t, tpl)
			known := KnownTokens(k.ID)
			for _, tok := range Tokens(tpl) {
				assert.True(t, known[tok], "token %s not in field set for %s", tok, k.ID)
			}
		})
	}
}

func TestGetFallsBackToServices(t *testing.T) {
	assert.Equal(t, servicesTemplate, Get("barter"))
	assert.Equal(t, servicesTemplate, Get(""))
	assert.Equal(t, servicesTemplate, Get("employment"))

	_, ok := Lookup("barter")
	assert.False(t, ok)
	tpl, ok := Lookup("rent")
	assert.True(t, ok)
	assert.Equal(t, rentTemplate, tpl)
}

func TestGetIsDeterministic(t *testing.T) {
	assert.Equal(t, Get("sale"), Get("sale"))
}

func TestGenericTemplatesDoNotUseRentTokens(t *testing.T) {
	generic := KnownTokens("services")
	for _, kind := range []string{"services", "sale", "nda"} {
		for _, tok := range Tokens(Get(kind)) {
			assert.True(t, generic[tok], "%s uses %s", kind, tok)
		}
	}
	assert.Contains(t, Tokens(rentTemplate), TokenPropertyList)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"A", "B_C"}, Tokens("{B_C} x {A} {A} {lower} {}"))
}

func TestFindKindAndListName(t *testing.T) {
	k, ok := FindKind("rent")
	require.True(t, ok)
	assert.Equal(t, "Оренда", k.Name)

	_, ok = FindKind("nope")
	assert.False(t, ok)

	assert.Equal(t, "Договір оренди", ListName("rent"))
	assert.Equal(t, "loan", ListName("loan"))
	assert.Len(t, Kinds(), 20)
}
