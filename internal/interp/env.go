package interp

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/you-not-fish/lox/internal/syntax"
)

// Environment is one frame of variable bindings. Frames are shared by
// pointer: every closure that captured a frame observes its mutations.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a frame whose parent is enclosing (nil for the
// global frame).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

// Enclosing returns the parent frame.
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this frame, replacing any previous binding.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get looks name up along the chain of frames.
func (e *Environment) Get(name syntax.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, e.undefined(name)
}

// Assign stores v into the nearest frame that binds name.
func (e *Environment) Assign(name syntax.Token, v Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = v
			return nil
		}
	}
	return e.undefined(name)
}

// GetAt reads name from the frame distance hops up the chain.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt stores v into the frame distance hops up the chain.
func (e *Environment) AssignAt(distance int, name string, v Value) {
	e.ancestor(distance).values[name] = v
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// Names returns the names bound in this frame, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) undefined(name syntax.Token) *RuntimeError {
	if hint := closestName(name.Lexeme, e.Names()); hint != "" {
		return runtimeErrorf(name, "Undefined variable '%s'. Did you mean '%s'?", name.Lexeme, hint)
	}
	return runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
}

// closestName picks the candidate nearest to target: first among names
// containing target's letters in order, then among names whose letters
// appear in order in target.
func closestName(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		for _, c := range candidates {
			if len(c) > 1 && fuzzy.MatchFold(c, target) {
				ranks = append(ranks, fuzzy.Rank{
					Source:   c,
					Target:   c,
					Distance: fuzzy.LevenshteinDistance(c, target),
				})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	return ranks[0].Target
}
