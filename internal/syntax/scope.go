package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// Binding is a variable known to the parser.
type Binding struct {
	Name    string
	Mutable bool
	Pos     Pos // declaration site
}

// Scope tracks which variables are defined, and whether they are mutable,
// at parse time. Scopes nest per function body and per control body; a
// child sees its parents' bindings, and its own bindings disappear with it.
type Scope struct {
	parent  *Scope
	elems   map[string]*Binding
	comment string // e.g. "function add", "for loop"
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string]*Binding),
		comment: comment,
	}
}

// Parent returns the parent scope, or nil for a top-level scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Lookup returns the binding declared in this scope only.
func (s *Scope) Lookup(name string) *Binding {
	return s.elems[name]
}

// LookupParent searches this scope and then each parent.
// Returns (nil, nil) if the name is not visible.
func (s *Scope) LookupParent(name string) (*Binding, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if b := scope.elems[name]; b != nil {
			return b, scope
		}
	}
	return nil, nil
}

// Insert declares b in this scope. If the name is already declared here,
// the existing binding is returned and b is not inserted.
func (s *Scope) Insert(b *Binding) *Binding {
	if existing := s.elems[b.Name]; existing != nil {
		return existing
	}
	s.elems[b.Name] = b
	return nil
}

// Clone returns a copy of s with the same parent. Declarations made in
// the copy do not affect s.
func (s *Scope) Clone() *Scope {
	c := NewScope(s.parent, s.comment)
	for name, b := range s.elems {
		c.elems[name] = b
	}
	return c
}

// Names returns the names declared in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the scope chain for debugging, innermost first.
func (s *Scope) String() string {
	var buf strings.Builder
	for scope, depth := s, 0; scope != nil; scope, depth = scope.parent, depth+1 {
		fmt.Fprintf(&buf, "%sscope %s {", strings.Repeat("  ", depth), scope.comment)
		for _, name := range scope.Names() {
			b := scope.elems[name]
			if b.Mutable {
				fmt.Fprintf(&buf, " var* %s", name)
			} else {
				fmt.Fprintf(&buf, " var %s", name)
			}
		}
		buf.WriteString(" }\n")
	}
	return buf.String()
}
