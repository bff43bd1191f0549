// Package main implements the Nerve interpreter entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/nerve/internal/config"
	"github.com/you-not-fish/nerve/internal/debug"
	"github.com/you-not-fish/nerve/internal/interp"
	"github.com/you-not-fish/nerve/internal/syntax"
)

// Interpreter flags
var (
	evalSrc      = flag.String("e", "", "Run the given script text")
	emitTokens   = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST      = flag.Bool("emit-ast", false, "Output AST")
	astFormat    = flag.String("ast-format", "text", "AST output format (text or json)")
	configPath   = flag.String("config", "", "Read settings from a YAML file")
	numericTruth = flag.Bool("numeric-truth", false, "Accept non-zero numbers as true conditions")
	strict       = flag.Bool("strict", false, "Reject assignment to undeclared variables")
	precedence   = flag.String("precedence", "", "Operator precedence (flat or tiered)")
	repl         = flag.Bool("repl", false, "Start an interactive session")
	version      = flag.Bool("version", false, "Print version")

	debugFlags debug.Set
)

func init() {
	flag.Var(&debugFlags, "debug", "Debug output: comma-separated timing, state_change, errors, tokens, or all")
}

// Version information
const Version = "0.1.0-dev"

const (
	promptMain  = "nerve> "
	promptCont  = "  ...> "
	historyFile = ".nerve_history"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Nerve %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: nerve [options] [file.nrv]\n")
		fmt.Fprintf(os.Stderr, "       nerve [options] -e 'print(\"hi\")'\n\n")
		fmt.Fprintf(os.Stderr, "Without a file, nerve starts an interactive session.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("nerve version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	opts, err := loadOptions(flag.Visit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if *evalSrc != "" {
		os.Exit(runSource("-e", *evalSrc, opts))
	}

	args := flag.Args()
	if len(args) == 0 || *repl {
		os.Exit(runREPL(opts))
	}

	filename := args[0]

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	// Handle -emit-ast
	if *emitAST {
		os.Exit(runEmitAST(filename, opts))
	}

	os.Exit(runFile(filename, opts))
}

// loadOptions reads the -config file, if any, and applies the flags that
// were given on the command line over it. visit enumerates the given flags.
func loadOptions(visit func(func(*flag.Flag))) (interp.Options, error) {
	c := config.Default()
	if *configPath != "" {
		var err error
		if c, err = config.Load(*configPath); err != nil {
			return interp.Options{}, err
		}
	}
	visit(func(f *flag.Flag) {
		switch f.Name {
		case "numeric-truth":
			c.NumericTruth = *numericTruth
		case "strict":
			c.StrictAssign = *strict
		case "precedence":
			c.Precedence = *precedence
		case "debug":
			for _, fl := range debugFlags.Flags() {
				c.Debug = append(c.Debug, fl.String())
			}
		}
	})
	if err := c.Validate(); err != nil {
		return interp.Options{}, err
	}
	return c.Options()
}

// runFile runs a script file and returns an exit code.
func runFile(filename string, opts interp.Options) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return runSource(filename, string(src), opts)
}

// runSource runs src, stopping early on an interrupt.
func runSource(name, src string, opts interp.Options) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts.Output = func(line string) { fmt.Fprintln(os.Stdout, line) }
	if err := interp.RunContext(ctx, name, src, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string, opts interp.Options) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	s, err := interp.NewSession(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	file, err := s.Parse(filename, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Output AST
	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, file); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, file)
	}
	return 0
}

// runEmitTokens tokenizes the input file and prints all tokens with
// positions. Template interpolations are listed below their template.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	s, err := syntax.NewScanner(filename, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	toks, err := s.Scan()

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	printTokens(os.Stdout, toks, "")

	if err != nil {
		fmt.Println()
		fmt.Println("Errors:")
		fmt.Printf("  %v\n", err)
		return 1
	}
	return 0
}

func printTokens(w io.Writer, toks []syntax.Lexeme, indent string) {
	for _, l := range toks {
		var detail string
		switch {
		case l.Value != nil:
			lit := l.Lit
			if s, ok := l.Value.(string); ok {
				lit = formatLiteral(s)
			}
			detail = l.Kind.String() + " " + lit
		case l.Parts == nil:
			detail = l.Lit
		}
		fmt.Fprintf(w, "%-20s %-12s %s\n", indent+l.Pos.String(), l.Tok, detail)

		for _, part := range l.Parts {
			if part.IsExpr() {
				printTokens(w, part.Tokens, indent+"  ")
				continue
			}
			fmt.Fprintf(w, "%-20s %-12s %s\n", indent+"  ", "TEXT", formatLiteral(part.Text))
		}
	}
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case '{':
			b.WriteString("\\{")
		case '}':
			b.WriteString("\\}")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// ----------------------------------------------------------------------------
// REPL

// runREPL reads statements from the terminal and runs each against one
// session. Input that ends inside a body, call or string continues on the
// next line.
func runREPL(opts interp.Options) int {
	fmt.Printf("Nerve %s. Type :quit to exit.\n", Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	opts.Output = func(line string) { fmt.Fprintln(os.Stdout, line) }
	s, err := interp.NewSession(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var buf strings.Builder
	for n := 1; ; n++ {
		prompt := promptMain
		if buf.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			buf.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}

		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":quit", ":q":
				return 0
			case ":funcs":
				fmt.Println(strings.Join(s.Interpreter().FuncNames(), " "))
				continue
			case ":vars":
				fmt.Print(s.Interpreter().Global())
				continue
			}
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)

		src := buf.String()
		err = evalLine(s, fmt.Sprintf("repl%d", n), src)
		if errors.Is(err, syntax.ErrUnexpectedEOF) {
			continue
		}
		buf.Reset()
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

// evalLine runs one REPL entry. An interrupt stops the entry, not the
// session.
func evalLine(s *interp.Session, name, src string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return s.Exec(ctx, name, src)
}
