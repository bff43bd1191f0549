// Package debug provides the diagnostic flags and logger used by the
// interpreter. Messages are built lazily: nothing is formatted unless the
// flags that guard a message are enabled.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Flag selects one category of diagnostic output.
type Flag uint8

const (
	Timing      Flag = iota // elapsed time of runs and built-in calls
	StateChange             // each top-level statement as it executes
	Errors                  // errors captured by the interpreter
	Tokens                  // token sequences produced by the tokenizer

	flagCount
)

var flagNames = [...]string{
	Timing:      "timing",
	StateChange: "state_change",
	Errors:      "errors",
	Tokens:      "tokens",
}

func (f Flag) String() string {
	if f < flagCount {
		return flagNames[f]
	}
	return fmt.Sprintf("flag(%d)", f)
}

// ParseFlag parses a flag name. Case and the separator between words
// (_, - or none) are ignored.
func ParseFlag(name string) (Flag, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	for f := Flag(0); f < flagCount; f++ {
		if strings.ReplaceAll(flagNames[f], "_", "") == norm {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown debug flag %q", name)
}

// Set is a set of flags.
type Set uint32

// All enables every flag.
const All Set = 1<<flagCount - 1

// Of returns the set containing flags.
func Of(flags ...Flag) Set {
	var s Set
	for _, f := range flags {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is in s.
func (s Set) Has(f Flag) bool { return s&(1<<f) != 0 }

// With returns s with f added.
func (s Set) With(f Flag) Set { return s | 1<<f }

// Union returns the flags in either set.
func (s Set) Union(t Set) Set { return s | t }

// Contains reports whether every flag of t is in s.
func (s Set) Contains(t Set) bool { return s&t == t }

// Empty reports whether no flag is set.
func (s Set) Empty() bool { return s == 0 }

// Flags returns the members of s in declaration order.
func (s Set) Flags() []Flag {
	var flags []Flag
	for f := Flag(0); f < flagCount; f++ {
		if s.Has(f) {
			flags = append(flags, f)
		}
	}
	return flags
}

// String returns the comma-separated flag names, e.g. "timing,errors".
func (s Set) String() string {
	names := make([]string, 0, flagCount)
	for _, f := range s.Flags() {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}

// Set adds the flags named in a comma-separated list. It makes *Set a
// flag.Value.
func (s *Set) Set(list string) error {
	parsed, err := ParseSet(list)
	if err != nil {
		return err
	}
	*s = s.Union(parsed)
	return nil
}

// ParseSet parses a comma-separated list of flag names. "all" selects
// every flag; an empty list is the empty set.
func ParseSet(list string) (Set, error) {
	var s Set
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "all":
			s = All
			continue
		}
		f, err := ParseFlag(name)
		if err != nil {
			return 0, err
		}
		s = s.With(f)
	}
	return s, nil
}

// Logger writes diagnostics for the enabled flags through slog.
// A nil *Logger discards everything.
type Logger struct {
	flags Set
	log   *slog.Logger
}

// New returns a Logger writing text records to w (os.Stderr if nil).
func New(w io.Writer, flags Set) *Logger {
	if w == nil {
		w = os.Stderr
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewWithHandler(h, flags)
}

// NewWithHandler returns a Logger emitting records to h.
func NewWithHandler(h slog.Handler, flags Set) *Logger {
	return &Logger{flags: flags, log: slog.New(h)}
}

// Flags returns the enabled flags.
func (l *Logger) Flags() Set {
	if l == nil {
		return 0
	}
	return l.flags
}

// Enabled reports whether a message guarded by flags would be written:
// every flag in flags must be enabled, and an empty guard matches when any
// flag is.
func (l *Logger) Enabled(flags Set) bool {
	if l == nil || l.flags.Empty() {
		return false
	}
	return l.flags.Contains(flags)
}

// With returns a Logger that tags its records with the given run name.
func (l *Logger) With(run string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{flags: l.flags, log: l.log.With(slog.String("run", run))}
}

// Debug writes the message returned by msg if flags are enabled. msg is
// not called otherwise.
func (l *Logger) Debug(flags Set, msg func() string, attrs ...slog.Attr) {
	if !l.Enabled(flags) {
		return
	}
	attrs = append([]slog.Attr{slog.String("flag", flags.String())}, attrs...)
	l.log.LogAttrs(context.Background(), slog.LevelDebug, msg(), attrs...)
}
