package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/lox/internal/syntax"
)

func ident(name string) syntax.Token {
	return syntax.Token{Kind: syntax.Ident, Lexeme: name, Pos: syntax.NewPos("env.lox", 3, 1)}
}

func TestEnvironment(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", 1.0)

	outer := NewEnvironment(global)
	outer.Define("b", 2.0)
	inner := NewEnvironment(outer)
	inner.Define("a", "shadow")

	assert.Same(t, outer, inner.Enclosing())
	assert.Nil(t, global.Enclosing())

	assert.Equal(t, "shadow", inner.GetAt(0, "a"))
	assert.Equal(t, 2.0, inner.GetAt(1, "b"))
	assert.Equal(t, 1.0, inner.GetAt(2, "a"))

	inner.AssignAt(1, "b", 20.0)
	assert.Equal(t, 20.0, outer.GetAt(0, "b"))

	v, err := global.Get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	require.NoError(t, global.Assign(ident("a"), 10.0))
	assert.Equal(t, 10.0, inner.GetAt(2, "a"))

	// redefinition replaces the value
	global.Define("a", nil)
	v, err = global.Get(ident("a"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEnvironmentUndefined(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("count", 1.0)
	global.Define("clock", nil)

	_, err := global.Get(ident("cout"))
	rerr := runtimeError(t, err)
	assert.Equal(t, "Undefined variable 'cout'. Did you mean 'count'?", rerr.Msg)
	assert.Equal(t, 3, rerr.Line())

	err = global.Assign(ident("zzz"), 1.0)
	rerr = runtimeError(t, err)
	assert.Equal(t, "Undefined variable 'zzz'.", rerr.Msg)
	assert.Equal(t, "Undefined variable 'zzz'.\n[line 3]", rerr.Error())
}

func TestClosestName(t *testing.T) {
	tests := []struct {
		target     string
		candidates []string
		want       string
	}{
		{"cnt", []string{"count", "clock"}, "count"},
		{"total", []string{"totals", "subtotal", "x"}, "totals"},
		{"totals", []string{"total", "clock"}, "total"},
		{"x", []string{"clock"}, ""},
		{"a", []string{"b", "c"}, ""},
		{"nope", nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, closestName(tt.target, tt.candidates), "closestName(%q, %v)", tt.target, tt.candidates)
	}
}
