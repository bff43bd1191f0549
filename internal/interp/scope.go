package interp

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/you-not-fish/nerve/internal/value"
)

// Variable is a named binding.
type Variable struct {
	Name    string
	Value   value.Value
	Mutable bool
}

// Scope holds the variables of one function call, control body or of the
// whole script. Lookups walk outward through the parents; definitions land
// in the innermost scope and vanish when it is discarded.
type Scope struct {
	parent  *Scope
	vars    map[string]*Variable
	comment string

	elapsed time.Duration // accumulated evaluation time, global scope only
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		vars:    make(map[string]*Variable),
		comment: comment,
	}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Global returns the outermost scope of the chain.
func (s *Scope) Global() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Lookup returns the nearest variable called name, or nil.
func (s *Scope) Lookup(name string) *Variable {
	for scope := s; scope != nil; scope = scope.parent {
		if v := scope.vars[name]; v != nil {
			return v
		}
	}
	return nil
}

// Define binds name in this scope, replacing any binding of the same name
// declared here.
func (s *Scope) Define(name string, v value.Value, mutable bool) *Variable {
	variable := &Variable{Name: name, Value: v, Mutable: mutable}
	s.vars[name] = variable
	return variable
}

// Assign stores v in the nearest variable called name.
func (s *Scope) Assign(name string, v value.Value) error {
	variable := s.Lookup(name)
	switch {
	case variable == nil:
		return fmt.Errorf("variable %s is not defined", name)
	case !variable.Mutable:
		return fmt.Errorf("variable %s is immutable", name)
	}
	variable.Value = v
	return nil
}

// Names returns the names declared in this scope only, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) String() string {
	var buf strings.Builder
	for scope, depth := s, 0; scope != nil; scope, depth = scope.parent, depth+1 {
		fmt.Fprintf(&buf, "%sscope %s {", strings.Repeat("  ", depth), scope.comment)
		for _, name := range scope.Names() {
			fmt.Fprintf(&buf, " %s=%s", name, scope.vars[name].Value)
		}
		buf.WriteString(" }\n")
	}
	return buf.String()
}
