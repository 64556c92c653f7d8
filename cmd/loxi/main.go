// Command loxi runs Lox source files and an interactive prompt.
//
// Usage:
//
//	loxi                         interactive prompt (exit() to leave)
//	loxi <file>                  run a source file
//	loxi <command> <file>        tokenize | parse | evaluate | resolve | run
//
// The single-stage commands expose the pipeline for debugging: tokenize
// prints the token stream, parse prints the AST, evaluate treats the file
// as one bare expression, resolve prints the resolution side table, and
// run is the same as the two-argument form.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"loxi/internal/ast"
	"loxi/internal/interp"
	"loxi/internal/lexer"
	"loxi/internal/parser"
	"loxi/internal/report"
	"loxi/internal/resolver"
)

const (
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
)

func main() {
	args := os.Args[1:]

	switch len(args) {
	case 0:
		runPrompt()
	case 1:
		runFile(args[0])
	case 2:
		runCommand(args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: loxi [tokenize | parse | evaluate | resolve | run] [script]")
		os.Exit(exitUsage)
	}
}

func readSource(path string) string {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't open file '%s': %v\n", path, err)
		os.Exit(exitUsage)
	}
	return string(src)
}

func runFile(path string) {
	rep := report.New()
	stmts, locals := compile(readSource(path), rep)
	if rep.HadError {
		os.Exit(exitCompileError)
	}

	interp.New(locals, rep).Run(stmts)
	if rep.HadRuntimeError {
		os.Exit(exitRuntimeError)
	}
}

func runCommand(command, path string) {
	rep := report.New()
	src := readSource(path)

	switch command {
	case "tokenize":
		for _, tok := range lexer.New(src, rep).Scan() {
			fmt.Println(tok)
		}

	case "parse":
		toks := lexer.New(src, rep).Scan()
		for _, stmt := range parser.New(toks, rep).Parse() {
			fmt.Println(stmt)
		}

	case "evaluate":
		// The file is a single bare expression, no trailing semicolon.
		toks := lexer.New(src, rep).Scan()
		expr := parser.New(toks, rep).ParseExpression()
		if rep.HadError {
			break
		}
		locals := resolver.New(rep).Resolve([]ast.Stmt{&ast.ExpressionStmt{Expr: expr}})
		if v, ok := interp.New(locals, rep).Evaluate(expr); ok {
			fmt.Println(interp.Stringify(v))
		}

	case "resolve":
		stmts, locals := compile(src, rep)
		printLocals(stmts, locals)

	case "run":
		runFile(path)
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		os.Exit(exitUsage)
	}

	if rep.HadError {
		os.Exit(exitCompileError)
	}
	if rep.HadRuntimeError {
		os.Exit(exitRuntimeError)
	}
}

func compile(src string, rep *report.Reporter) ([]ast.Stmt, resolver.Locals) {
	toks := lexer.New(src, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	locals := resolver.New(rep).Resolve(stmts)
	return stmts, locals
}

// printLocals renders the side table sorted by rendered form, since map
// iteration order over node pointers is not deterministic.
func printLocals(stmts []ast.Stmt, locals resolver.Locals) {
	lines := make([]string, 0, len(locals))
	for expr, distance := range locals {
		lines = append(lines, fmt.Sprintf("%s -> %d", expr, distance))
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Println(line)
	}
}

// runPrompt reads one logical line at a time until exit(). The globals
// environment and the resolution side table persist across lines, so a
// function defined on one line is callable on the next; error flags reset
// per line so one bad input doesn't poison the session.
func runPrompt() {
	rep := report.New()
	locals := make(resolver.Locals)
	it := interp.New(locals, rep)

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		line := in.Text()
		if line == "exit()" {
			break
		}
		if line != "" {
			runLine(line, it, locals, rep)
			rep.Reset()
		}
		fmt.Print("> ")
	}
}

func runLine(line string, it *interp.Interpreter, locals resolver.Locals, rep *report.Reporter) {
	// Parse diagnostics from the first attempt stay buffered: a bare
	// expression with no trailing ';' is retried as a print statement,
	// and the original diagnostic only surfaces when both attempts fail.
	buf := &bytes.Buffer{}
	tryRep := &report.Reporter{Out: buf}
	toks := lexer.New(line, tryRep).Scan()
	stmts := parser.New(toks, tryRep).Parse()
	if tryRep.HadError {
		retryRep := &report.Reporter{Out: io.Discard}
		retry := lexer.New("print "+line+";", retryRep).Scan()
		stmts = parser.New(retry, retryRep).Parse()
		if retryRep.HadError {
			os.Stderr.Write(buf.Bytes())
			return
		}
	} else if len(stmts) == 1 {
		// An expression statement typed at the prompt echoes its value.
		if es, ok := stmts[0].(*ast.ExpressionStmt); ok {
			stmts[0] = &ast.PrintStmt{Expr: es.Expr}
		}
	}

	lineLocals := resolver.New(rep).Resolve(stmts)
	if rep.HadError {
		return
	}
	for expr, distance := range lineLocals {
		locals[expr] = distance
	}
	it.Run(stmts)
}
