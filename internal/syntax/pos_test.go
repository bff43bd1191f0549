package syntax

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name    string
		pos     Pos
		wantStr string
	}{
		{"with filename", NewPos("test.nrv", 10, 5), "test.nrv:10:5"},
		{"without filename", NewPos("", 10, 5), "10:5"},
		{"line 1 col 1", NewPos("main.nrv", 1, 1), "main.nrv:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.wantStr {
				t.Errorf("Pos.String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestPosIsValid(t *testing.T) {
	tests := []struct {
		name  string
		pos   Pos
		valid bool
	}{
		{"valid position", NewPos("test.nrv", 1, 1), true},
		{"valid position line 100", NewPos("", 100, 50), true},
		{"invalid - zero line", NewPos("test.nrv", 0, 1), false},
		{"invalid - zero value", Pos{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPosAccessors(t *testing.T) {
	p := NewPos("script.nrv", 42, 7)
	if p.Line() != 42 {
		t.Errorf("Line() = %d, want 42", p.Line())
	}
	if p.Col() != 7 {
		t.Errorf("Col() = %d, want 7", p.Col())
	}
	if p.Filename() != "script.nrv" {
		t.Errorf("Filename() = %q, want %q", p.Filename(), "script.nrv")
	}
}
