package e2e

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/you-not-fish/nerve/internal/interp"
)

var update = flag.Bool("update", false, "rewrite .golden files with the actual output")

// TestE2E runs every .nrv script in testdata/ and compares what it prints
// with the .golden file next to it. A script that fails contributes a final
// "error: ..." line to its output.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.nrv")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .nrv test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".nrv")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single script.
func runE2ETest(t *testing.T, nrvFile string) {
	t.Helper()

	src, err := os.ReadFile(nrvFile)
	if err != nil {
		t.Fatalf("reading script: %v", err)
	}

	var out strings.Builder
	opts := interp.Options{
		Output: func(line string) {
			out.WriteString(line)
			out.WriteByte('\n')
		},
	}
	if err := interp.RunContext(context.Background(), filepath.Base(nrvFile), string(src), opts); err != nil {
		out.WriteString("error: " + err.Error() + "\n")
	}

	goldenFile := strings.TrimSuffix(nrvFile, ".nrv") + ".golden"
	if *update {
		if err := os.WriteFile(goldenFile, []byte(out.String()), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if diff := cmp.Diff(string(expected), out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestE2EDeterministic runs each script twice in fresh interpreters and
// checks that nothing leaks between the runs.
func TestE2EDeterministic(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.nrv")
	if err != nil {
		t.Fatal(err)
	}
	for _, testFile := range testFiles {
		src, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatal(err)
		}
		var runs [2]string
		for i := range runs {
			var out strings.Builder
			err := interp.Run(string(src), interp.Options{Output: func(line string) { out.WriteString(line + "\n") }})
			if err != nil {
				out.WriteString(err.Error())
			}
			runs[i] = out.String()
		}
		if runs[0] != runs[1] {
			t.Errorf("%s: runs differ:\n%s\n---\n%s", testFile, runs[0], runs[1])
		}
	}
}
