package debug

import (
	"bytes"
	"flag"
	"strings"
	"testing"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{"timing", Timing},
		{"TIMING", Timing},
		{"state_change", StateChange},
		{"state-change", StateChange},
		{"statechange", StateChange},
		{" errors ", Errors},
		{"tokens", Tokens},
	}
	for _, tt := range tests {
		got, err := ParseFlag(tt.in)
		if err != nil {
			t.Errorf("ParseFlag(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFlag("verbose"); err == nil {
		t.Error("ParseFlag(verbose) succeeded")
	}
}

func TestSet(t *testing.T) {
	s := Of(Timing, Errors)
	if !s.Has(Timing) || !s.Has(Errors) || s.Has(StateChange) {
		t.Errorf("Of(Timing, Errors) = %s", s)
	}
	if got := s.String(); got != "timing,errors" {
		t.Errorf("String() = %q, want timing,errors", got)
	}
	if !s.Contains(Of(Errors)) || s.Contains(Of(Errors, Tokens)) {
		t.Errorf("Contains misbehaves on %s", s)
	}
	if u := s.Union(Of(Tokens)); !u.Has(Tokens) || !u.Has(Timing) {
		t.Errorf("Union = %s", u)
	}
	if !Set(0).Empty() || s.Empty() {
		t.Error("Empty misbehaves")
	}
	if got := All.String(); got != "timing,state_change,errors,tokens" {
		t.Errorf("All = %q", got)
	}
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		in   string
		want Set
	}{
		{"", 0},
		{"timing", Of(Timing)},
		{"timing, errors", Of(Timing, Errors)},
		{"errors,,tokens", Of(Errors, Tokens)},
		{"all", All},
	}
	for _, tt := range tests {
		got, err := ParseSet(tt.in)
		if err != nil {
			t.Errorf("ParseSet(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSet(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseSet("timing,nope"); err == nil {
		t.Error("ParseSet with an unknown name succeeded")
	}
}

func TestSetFlagValue(t *testing.T) {
	var s Set
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&s, "debug", "debug flags")
	if err := fs.Parse([]string{"-debug", "timing", "-debug", "errors"}); err != nil {
		t.Fatal(err)
	}
	if s != Of(Timing, Errors) {
		t.Errorf("flag value = %s, want timing,errors", s)
	}
}

func TestLoggerLazy(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Of(Timing))

	called := false
	l.Debug(Of(Errors), func() string {
		called = true
		return "never"
	})
	if called {
		t.Error("message built for a disabled flag")
	}
	if buf.Len() != 0 {
		t.Errorf("disabled message written: %q", buf.String())
	}

	l.With("main").Debug(Of(Timing), func() string { return "elapsed" })
	out := buf.String()
	for _, want := range []string{"msg=elapsed", "flag=timing", "run=main", "level=DEBUG"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled Set
		guard   Set
		want    bool
	}{
		{"exact", Of(Timing), Of(Timing), true},
		{"subset", Of(Timing, Errors), Of(Errors), true},
		{"all_required", Of(Timing), Of(Timing, Errors), false},
		{"empty_guard_any", Of(Tokens), 0, true},
		{"nothing_enabled", 0, 0, false},
		{"nothing_enabled_guarded", 0, Of(Timing), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(&bytes.Buffer{}, tt.enabled)
			if got := l.Enabled(tt.guard); got != tt.want {
				t.Errorf("Enabled(%s) with %s = %v, want %v", tt.guard, tt.enabled, got, tt.want)
			}
		})
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug(All, func() string {
		t.Error("nil logger built a message")
		return ""
	})
	if l.Enabled(0) || l.Flags() != 0 || l.With("x") != nil {
		t.Error("nil logger reports enabled state")
	}
}
