package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/interp"
)

func TestRunFilePrintsOutput(t *testing.T) {
	src := `fun add(a, b) { return a + b }
x = add(2, 3)
print("result: {x}")
`
	filename := writeTempNerveFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename, interp.Options{})
	})

	if code != 0 {
		t.Fatalf("runFile exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if out != "result: 5\n" {
		t.Fatalf("stdout = %q, want %q", out, "result: 5\n")
	}
}

func TestRunSourceReportsErrors(t *testing.T) {
	code, out, errOut := captureOutput(t, func() int {
		return runSource("-e", `print("a")
print()`, interp.Options{})
	})

	if code != 1 {
		t.Fatalf("runSource exit=%d, want 1", code)
	}
	if out != "a\n" {
		t.Fatalf("stdout = %q, want output up to the failure", out)
	}
	if !strings.Contains(errOut, "error: -e:2:1: print expects 1 argument, got 0") {
		t.Fatalf("stderr missing error:\n%s", errOut)
	}
}

func TestRunFileMissing(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runFile(filepath.Join(t.TempDir(), "missing.nrv"), interp.Options{})
	})
	if code != 1 || !strings.Contains(errOut, "error:") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunEmitTokensShowsTemplateParts(t *testing.T) {
	filename := writeTempNerveFile(t, "var x = 'a{1+1}b'\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	for _, want := range []string{
		"POSITION",
		"var",
		"TEMPLATE",
		`TEXT         "a"`,
		"LITERAL      Integer 1",
		"+",
		`TEXT         "b"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("token output missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmitTokensReportsErrors(t *testing.T) {
	filename := writeTempNerveFile(t, "var x = 3.14.5\n")
	code, out, _ := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})
	if code != 1 {
		t.Fatalf("runEmitTokens exit=%d, want 1", code)
	}
	if !strings.Contains(out, "Errors:") {
		t.Fatalf("token output missing errors section:\n%s", out)
	}
}

func TestRunEmitAST(t *testing.T) {
	filename := writeTempNerveFile(t, "var* x = 1 + 2\nprint(x)\n")

	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename, interp.Options{})
	})
	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"VarDecl", "var* x", "BinaryOp", "CallExpr", "print"} {
		if !strings.Contains(out, want) {
			t.Errorf("AST output missing %q:\n%s", want, out)
		}
	}

	old := *astFormat
	*astFormat = "json"
	defer func() { *astFormat = old }()
	code, out, errOut = captureOutput(t, func() int {
		return runEmitAST(filename, interp.Options{})
	})
	if code != 0 {
		t.Fatalf("runEmitAST json exit=%d\nstderr:\n%s", code, errOut)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc["type"] != "File" {
		t.Errorf("type = %v, want File", doc["type"])
	}
}

func TestRunEmitASTParseError(t *testing.T) {
	filename := writeTempNerveFile(t, "var x = 1\nx = 2\n")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitAST(filename, interp.Options{})
	})
	if code != 1 || !strings.Contains(errOut, "variable x is immutable") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "nerve.yaml")
	if err := os.WriteFile(cfg, []byte("precedence: tiered\nnumeric_truth: true\nglobals:\n  who: file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	visit := givenFlags(t, map[string]string{
		"config":        cfg,
		"numeric-truth": "false",
		"debug":         "timing",
	})
	opts, err := loadOptions(visit)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Tiered {
		t.Error("precedence from the config file was lost")
	}
	if opts.NumericTruth {
		t.Error("-numeric-truth=false did not override the config file")
	}
	if opts.Debug != debug.Of(debug.Timing) {
		t.Errorf("debug = %s, want timing", opts.Debug)
	}
	if opts.Globals["who"] == nil || opts.Globals["who"].String() != "file" {
		t.Errorf("globals = %v", opts.Globals)
	}
}

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := loadOptions(givenFlags(t, nil))
	if err != nil {
		t.Fatal(err)
	}
	if opts.Tiered || opts.NumericTruth || opts.StrictAssign || !opts.Debug.Empty() {
		t.Errorf("default options = %+v", opts)
	}
	if opts.MaxDepth != interp.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", opts.MaxDepth, interp.DefaultMaxDepth)
	}
}

func TestLoadOptionsInvalid(t *testing.T) {
	visit := givenFlags(t, map[string]string{"precedence": "sideways"})
	if _, err := loadOptions(visit); err == nil {
		t.Error("invalid -precedence accepted")
	}
}

func TestRunEmitTokensNestedTemplate(t *testing.T) {
	filename := writeTempNerveFile(t, `print("x{"y{1}"}")`)
	code, out, _ := captureOutput(t, func() int { return runEmitTokens(filename) })
	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\n%s", code, out)
	}
	if !strings.Contains(out, "\n    ") {
		t.Errorf("nested template tokens not indented:\n%s", out)
	}
}

func writeTempNerveFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.nrv")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

// givenFlags sets the named command-line flags and returns a visitor
// reporting them as given. The flags are restored when the test ends.
func givenFlags(t *testing.T, values map[string]string) func(func(*flag.Flag)) {
	t.Helper()
	t.Cleanup(func() {
		*configPath = ""
		*numericTruth = false
		*strict = false
		*precedence = ""
		debugFlags = 0
	})
	var given []*flag.Flag
	for name, v := range values {
		f := flag.Lookup(name)
		if f == nil {
			t.Fatalf("no flag %s", name)
		}
		if err := f.Value.Set(v); err != nil {
			t.Fatalf("set -%s=%s: %v", name, v, err)
		}
		given = append(given, f)
	}
	return func(fn func(*flag.Flag)) {
		for _, f := range given {
			fn(f)
		}
	}
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
