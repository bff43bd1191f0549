package syntax

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignorePos = cmpopts.IgnoreFields(Lexeme{}, "Pos")

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		// Identifiers
		{"ident", "foo", []Token{_Name}, []string{"foo"}},
		{"ident_underscore", "_bar", []Token{_Name}, []string{"_bar"}},
		{"ident_digits", "foo123", []Token{_Name}, []string{"foo123"}},
		{"ident_dash", "max-len", []Token{_Name}, []string{"max-len"}},
		{"ident_unicode", "größe", []Token{_Name}, []string{"größe"}},

		// Keywords
		{"kw_if", "if", []Token{_If}, []string{"if"}},
		{"kw_elseif", "elseif", []Token{_ElseIf}, []string{"elseif"}},
		{"kw_eif", "eif", []Token{_ElseIf}, []string{"eif"}},
		{"kw_else", "else", []Token{_Else}, []string{"else"}},
		{"kw_while", "while", []Token{_While}, []string{"while"}},
		{"kw_return", "return", []Token{_Return}, []string{"return"}},
		{"kw_break", "break", []Token{_Break}, []string{"break"}},
		{"kw_continue", "continue", []Token{_Continue}, []string{"continue"}},
		{"kw_for", "for", []Token{_For}, []string{"for"}},
		{"kw_fun", "fun", []Token{_Fun}, []string{"fun"}},
		{"kw_type", "type", []Token{_Type}, []string{"type"}},
		{"kw_null", "null", []Token{_Null}, []string{"null"}},
		{"kw_var", "var x", []Token{_Var, _Name}, []string{"var", "x"}},
		{"kw_mutvar", "var* x", []Token{_MutVar, _Name}, []string{"var*", "x"}},
		{"kw_var_mul", "var *x", []Token{_Var, _Mul, _Name}, []string{"var", "*", "x"}},

		// Operators
		{"op_assign", "=", []Token{_Assign}, []string{"="}},
		{"op_eql", "==", []Token{_Eql}, []string{"=="}},
		{"op_neq", "!=", []Token{_Neq}, []string{"!="}},
		{"op_lss", "<", []Token{_Lss}, []string{"<"}},
		{"op_gtr", ">", []Token{_Gtr}, []string{">"}},
		{"op_range", "...", []Token{_Range}, []string{"..."}},
		{"op_add", "+", []Token{_Add}, []string{"+"}},
		{"op_sub", "-", []Token{_Sub}, []string{"-"}},
		{"op_mul", "*", []Token{_Mul}, []string{"*"}},
		{"op_div", "/", []Token{_Div}, []string{"/"}},
		{"op_rem", "%", []Token{_Rem}, []string{"%"}},
		{"op_pow", "^", []Token{_Pow}, []string{"^"}},

		// Separators
		{"separators", "(){}[],",
			[]Token{_Lparen, _Rparen, _Lbrace, _Rbrace, _Lbrack, _Rbrack, _Comma},
			[]string{"(", ")", "{", "}", "[", "]", ","}},

		// Compound
		{"range_ints", "1...5", []Token{_Literal, _Range, _Literal}, []string{"1", "...", "5"}},
		{"sub_no_space", "a -1", []Token{_Name, _Sub, _Literal}, []string{"a", "-", "1"}},
		{"sub_spaced", "a - b", []Token{_Name, _Sub, _Name}, []string{"a", "-", "b"}},
		{"negative_after_assign", "x = -3", []Token{_Name, _Assign, _Literal}, []string{"x", "=", "-3"}},
		{"call", "add(2, 3)",
			[]Token{_Name, _Lparen, _Literal, _Comma, _Literal, _Rparen},
			[]string{"add", "(", "2", ",", "3", ")"}},
		{"comment", "// note\nx // trailing", []Token{_Name}, []string{"x"}},
		{"empty", "", nil, nil},
		{"only_whitespace", " \t\r\n ", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("test.nrv", tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.src, err)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("Tokenize(%q) = %d tokens %v, want %d", tt.src, len(toks), toks, len(tt.tokens))
			}
			for i, lex := range toks {
				if lex.Tok != tt.tokens[i] {
					t.Errorf("token %d: got %v, want %v", i, lex.Tok, tt.tokens[i])
				}
				if lex.Lit != tt.lits[i] {
					t.Errorf("token %d: lit = %q, want %q", i, lex.Lit, tt.lits[i])
				}
			}
		})
	}
}

func TestScanLiterals(t *testing.T) {
	tests := []struct {
		src   string
		kind  LitKind
		value any
	}{
		{"42", IntLit, int32(42)},
		{"0", IntLit, int32(0)},
		{"-7", IntLit, int32(-7)},
		{"3.14", DoubleLit, 3.14},
		{"2.", DoubleLit, 2.0},
		{"5L", LongLit, int64(5)},
		{"9000000000L", LongLit, int64(9000000000)},
		{"1.5f", FloatLit, float32(1.5)},
		{"2d", DoubleLit, 2.0},
		{"2.5d", DoubleLit, 2.5},
		{"true", BoolLit, true},
		{"false", BoolLit, false},
		{`"hello"`, StringLit, "hello"},
		{`'hello'`, StringLit, "hello"},
		{`""`, StringLit, ""},
		{`"it's"`, StringLit, "it's"},
		{`"a\nb"`, StringLit, "a\nb"},
		{`"a\tb"`, StringLit, "a\tb"},
		{`"a\\b"`, StringLit, `a\b`},
		{`"a\"b"`, StringLit, `a"b`},
		{`'a\'b'`, StringLit, "a'b"},
		{`"\{x\}"`, StringLit, "{x}"},
		{`"a\0b"`, StringLit, "a\x00b"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Tokenize("", tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.src, err)
			}
			if len(toks) != 1 || toks[0].Tok != _Literal {
				t.Fatalf("Tokenize(%q) = %v, want one literal", tt.src, toks)
			}
			if toks[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if diff := cmp.Diff(tt.value, toks[0].Value); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanTemplate(t *testing.T) {
	toks, err := Tokenize("", `'a{1+1}b'`)
	if err != nil {
		t.Fatal(err)
	}

	want := []Lexeme{{
		Tok: _Template,
		Parts: []Part{
			{Text: "a"},
			{Tokens: []Lexeme{
				{Tok: _Literal, Lit: "1", Kind: IntLit, Value: int32(1)},
				{Tok: _Add, Lit: "+"},
				{Tok: _Literal, Lit: "1", Kind: IntLit, Value: int32(1)},
			}},
			{Text: "b"},
		},
	}}
	if diff := cmp.Diff(want, toks, ignorePos); diff != "" {
		t.Errorf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestScanTemplateShapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		parts []bool // true for interpolations
	}{
		{"leading_expr", `"{x} left"`, []bool{true, false}},
		{"trailing_expr", `"right {x}"`, []bool{false, true}},
		{"only_expr", `"{x}"`, []bool{true}},
		{"adjacent", `"{x}{y}"`, []bool{true, true}},
		{"call", `"v={f(1, 2)}!"`, []bool{false, true, false}},
		{"nested_template", `"a{'b{c}'}"`, []bool{false, true}},
		{"empty_interpolation", `"{}"`, []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("", tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.src, err)
			}
			if len(toks) != 1 || toks[0].Tok != _Template {
				t.Fatalf("Tokenize(%q) = %v, want one template", tt.src, toks)
			}
			var got []bool
			for _, part := range toks[0].Parts {
				got = append(got, part.IsExpr())
			}
			if diff := cmp.Diff(tt.parts, got); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanTokenCounts(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"var x = 1", 4},
		{"var* y = 'hi'", 4},
		{"fun add(a, b) { return a + b }", 13},
		{"for i in (0...10) { print(i) }", 14},
		{"x = add(2, 3)\nprint('result: {x}')", 12},
	}

	for _, tt := range tests {
		toks, err := Tokenize("", tt.src)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.src, err)
		}
		if len(toks) != tt.want {
			t.Errorf("Tokenize(%q) = %d tokens %v, want %d", tt.src, len(toks), toks, tt.want)
		}
	}
}

func TestPosition(t *testing.T) {
	src := `fun f(a) {
    var x = 'v{
a}'
}
y`

	expected := []struct {
		tok  Token
		line uint32
		col  uint32
	}{
		{_Fun, 1, 1},
		{_Name, 1, 5},     // f
		{_Lparen, 1, 6},   // (
		{_Name, 1, 7},     // a
		{_Rparen, 1, 8},   // )
		{_Lbrace, 1, 10},  // {
		{_Var, 2, 5},      // var
		{_Name, 2, 9},     // x
		{_Assign, 2, 11},  // =
		{_Template, 2, 13},
		{_Rbrace, 4, 1},
		{_Name, 5, 1}, // y, after a template spanning two lines
	}

	toks, err := Tokenize("test.nrv", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(expected))
	}
	for i, exp := range expected {
		lex := toks[i]
		if lex.Tok != exp.tok {
			t.Errorf("token %d: got %v, want %v", i, lex.Tok, exp.tok)
		}
		if lex.Pos.Line() != exp.line || lex.Pos.Col() != exp.col {
			t.Errorf("token %d (%v): pos = %d:%d, want %d:%d",
				i, lex.Tok, lex.Pos.Line(), lex.Pos.Col(), exp.line, exp.col)
		}
		if lex.Pos.Filename() != "test.nrv" {
			t.Errorf("token %d: filename = %q", i, lex.Pos.Filename())
		}
	}

	// The interpolated name is positioned on the line it appears on.
	inner := toks[9].Parts[1].Tokens[0]
	if inner.Pos.Line() != 3 || inner.Pos.Col() != 1 {
		t.Errorf("interpolated name at %s, want 3:1", inner.Pos)
	}
}

func TestPositionLongLine(t *testing.T) {
	const n = 50000
	src := "var x = 0" + strings.Repeat(" + 1", n)

	done := make(chan struct{})
	var toks []Lexeme
	var err error
	go func() {
		defer close(done)
		toks, err = Tokenize("long.nrv", src)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("tokenizing a long line did not finish")
	}
	if err != nil {
		t.Fatal(err)
	}
	if want := 4 + 2*n; len(toks) != want {
		t.Fatalf("got %d tokens, want %d", len(toks), want)
	}
	last := toks[len(toks)-1]
	if want := uint32(len(src)); last.Pos.Line() != 1 || last.Pos.Col() != want {
		t.Errorf("last token at %s, want 1:%d", last.Pos, want)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		eof     bool // error wraps ErrUnexpectedEOF
	}{
		{"two_points", "3.14.5", "two decimal points", false},
		{"unterminated_string", `"hello`, "string literal not terminated", true},
		{"unterminated_template", `"a{x`, "interpolation not terminated", true},
		{"bad_escape", `"\q"`, "unknown escape sequence", false},
		{"lone_bang", "!x", "only != is an operator", false},
		{"lone_dot", "a.b", "only ... is an operator", false},
		{"two_dots", "1..2", "only ... is an operator", false},
		{"int_overflow", "99999999999", "invalid Integer literal", false},
		{"bad_char_at", "@", "unexpected character", false},
		{"bad_char_hash", "#", "unexpected character", false},
		{"bad_char_semi", "x;", "unexpected character", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("test.nrv", tt.src)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error containing %q", tt.src, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
			var terr *TokenizeError
			if !errors.As(err, &terr) {
				t.Errorf("error %T is not a *TokenizeError", err)
			}
			if got := errors.Is(err, ErrUnexpectedEOF); got != tt.eof {
				t.Errorf("errors.Is(err, ErrUnexpectedEOF) = %v, want %v", got, tt.eof)
			}
		})
	}
}

func TestScanDeterministic(t *testing.T) {
	src := `fun greet(name) { print("hi {name}, {1 + 2.5d}") }
var* n = 0
while (n < 3) { n = n + 1 }`

	first, err := Tokenize("a.nrv", src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize("a.nrv", src)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Pos{})); diff != "" {
		t.Errorf("two scans differ (-first +second):\n%s", diff)
	}
}

func TestNewScannerReader(t *testing.T) {
	s, err := NewScanner("r.nrv", strings.NewReader("print(1)"))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 4 {
		t.Errorf("got %d tokens, want 4", len(toks))
	}
}

func FuzzScanner(f *testing.F) {
	seeds := []string{
		"var x = 1",
		"fun foo() { return 123 }",
		`var* s = "hello\n{s}world"`,
		"for i in (0...10) { print(i) }",
		"x = 1.5f + 2L - 3d",
		"'a{ 'b{c}' }'",
		"// comment\nfoo",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		// Errors are acceptable, panics are not.
		_, _ = Tokenize("fuzz", src)
	})
}
