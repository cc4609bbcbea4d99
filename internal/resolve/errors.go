package resolve

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

// errorf reports a resolution error at tok. Resolution continues.
func (r *resolver) errorf(tok syntax.Token, format string, args ...interface{}) {
	err := syntax.ErrorAt(tok, fmt.Sprintf(format, args...))

	if r.errors == 0 {
		r.first = err
	}
	r.errors++

	if r.conf.Error != nil {
		r.conf.Error(err)
	}
}
