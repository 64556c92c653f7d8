// Command loxtest runs every .lox script under a cases directory and
// compares its stdout, stderr, and exit code against a checked-in
// .golden file next to the script. Subdirectories group cases into
// suites. With -update, the golden files are rewritten from the current
// interpreter's output instead of compared.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/exp/slices"
)

var (
	binFlag    = flag.String("bin", "./loxi", "command that runs a lox script (may include arguments)")
	casesFlag  = flag.String("cases", "cmd/loxtest/testdata", "directory holding .lox cases and .golden files")
	updateFlag = flag.Bool("update", false, "rewrite golden files from the interpreter's current output")
)

// ExecutionResult is what one interpreter run observably did. Duration is
// display-only and never part of the golden comparison.
type ExecutionResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`

	Duration time.Duration `json:"-"`
}

// TestCase is one .lox script plus its golden sibling.
type TestCase struct {
	Name   string // "control/for.lox"
	Path   string
	Golden string

	Expected *ExecutionResult
	Actual   *ExecutionResult
	Errors   []string
}

func main() {
	flag.Parse()

	cases, err := collectCases(*casesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "collecting cases: %v\n", err)
		os.Exit(1)
	}
	if len(cases) == 0 {
		fmt.Fprintf(os.Stderr, "no .lox cases under %s\n", *casesFlag)
		os.Exit(1)
	}

	if *updateFlag {
		updateGoldens(cases)
		return
	}

	failed := runCases(cases)
	printSummary(cases, failed)
	if len(failed) > 0 {
		os.Exit(1)
	}
}

func collectCases(dir string) ([]*TestCase, error) {
	var cases []*TestCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".lox") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		cases = append(cases, &TestCase{
			Name:   filepath.ToSlash(rel),
			Path:   path,
			Golden: strings.TrimSuffix(path, ".lox") + ".golden",
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(cases, func(a, b *TestCase) int {
		return strings.Compare(a.Name, b.Name)
	})
	return cases, nil
}

func execute(script string) *ExecutionResult {
	command := strings.Fields(*binFlag)
	command = append(command, script)
	cmd := exec.Command(command[0], command[1:]...)

	stdout := strings.Builder{}
	stderr := strings.Builder{}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
		}
	}

	return &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: duration,
	}
}

func updateGoldens(cases []*TestCase) {
	for _, tc := range cases {
		result := execute(tc.Path)
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", tc.Name, err)
			os.Exit(1)
		}
		if err := os.WriteFile(tc.Golden, append(data, '\n'), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", tc.Name, err)
			os.Exit(1)
		}
		fmt.Printf("  [%s] %s\n", color.YellowString("update"), tc.Name)
	}
}

func runCases(cases []*TestCase) []*TestCase {
	var failed []*TestCase
	for _, tc := range cases {
		tc.Actual = execute(tc.Path)

		expected, err := readGolden(tc.Golden)
		if err != nil {
			tc.Errors = append(tc.Errors, err.Error())
		} else {
			tc.Expected = expected
			tc.compare()
		}

		if len(tc.Errors) == 0 {
			fmt.Printf("  [%s] %-40s %12s\n", color.GreenString("passed"), tc.Name, tc.Actual.Duration.Round(time.Millisecond))
			continue
		}

		failed = append(failed, tc)
		fmt.Printf("  [%s] %-40s %12s\n", color.RedString("failed"), tc.Name, tc.Actual.Duration.Round(time.Millisecond))
		for _, msg := range tc.Errors {
			fmt.Printf("      %s\n", msg)
		}
	}
	return failed
}

func readGolden(path string) (*ExecutionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("missing golden file (run with -update): %w", err)
	}
	result := &ExecutionResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("bad golden file %s: %w", path, err)
	}
	return result, nil
}

func (tc *TestCase) compare() {
	if tc.Expected.ExitCode != tc.Actual.ExitCode {
		tc.Errors = append(tc.Errors, fmt.Sprintf("expected exit code %d, got %d", tc.Expected.ExitCode, tc.Actual.ExitCode))
	}
	if tc.Expected.Stdout != tc.Actual.Stdout {
		tc.Errors = append(tc.Errors, diff("stdout", tc.Expected.Stdout, tc.Actual.Stdout))
	}
	if tc.Expected.Stderr != tc.Actual.Stderr {
		tc.Errors = append(tc.Errors, diff("stderr", tc.Expected.Stderr, tc.Actual.Stderr))
	}
}

func diff(stream, expected, actual string) string {
	return fmt.Sprintf("%s mismatch\n      expected: %q\n      actual:   %q", stream, expected, actual)
}

func printSummary(cases []*TestCase, failed []*TestCase) {
	fmt.Println()
	fmt.Println("Test summary")
	fmt.Printf("Tests run: %d\n", len(cases))
	fmt.Printf("Succeeded: %d\n", len(cases)-len(failed))
	fmt.Printf("Failed:    %d\n", len(failed))

	if len(failed) > 0 {
		fmt.Println()
		fmt.Println("Failed tests:")
		for _, tc := range failed {
			fmt.Printf("  %s\n", tc.Name)
		}
	}
}
