package resolve

// scope is one lexical scope of the resolver's stack. It corresponds to
// exactly one environment frame at run time.
type scope struct {
	// names maps each declared name to whether its initializer has
	// finished resolving.
	names map[string]bool
}

func newScope() *scope {
	return &scope{names: make(map[string]bool)}
}

// declare adds name in the "declared, not yet defined" state.
// It reports false if name is already present.
func (s *scope) declare(name string) bool {
	if _, dup := s.names[name]; dup {
		return false
	}
	s.names[name] = false
	return true
}

// define marks name as fully initialized.
func (s *scope) define(name string) {
	s.names[name] = true
}

// lookup reports whether name is present and whether it is defined.
func (s *scope) lookup(name string) (present, defined bool) {
	defined, present = s.names[name]
	return
}
