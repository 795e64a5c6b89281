// Package loader turns a batch file of decimal expressions into an
// evaluation report, the way the ARM emulator's loader turned an assembled
// program into VM memory state: this is the file-to-runnable-state step
// for the deci console.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lookbusy1344/deci/console"
	"github.com/lookbusy1344/deci/decimal"
)

// LineResult is the outcome of evaluating one non-skipped line of a batch
// file.
type LineResult struct {
	Line       int
	Expression string
	Result     decimal.Decimal
	ValueRef   string
	Err        error
}

// Report is the ordered outcome of running an entire batch file.
type Report struct {
	Results []LineResult
}

// ErrorCount returns how many lines in the report failed to evaluate.
func (r Report) ErrorCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// RunFile reads path line by line, skipping blank lines and lines whose
// first non-space character is '#', and evaluates every remaining line
// through ev in order (so later lines can reference earlier results via
// $N). The line number recorded in each result is the 1-based line number
// in the source file, not the index into Report.Results, so error messages
// can point back at the file.
func RunFile(path string, ev *console.Evaluator) (Report, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an explicit CLI/API argument, not attacker-controlled input
	if err != nil {
		return Report{}, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	var report Report
	scanner := bufio.NewScanner(f)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		n := ev.ValueNumber()
		result, evalErr := ev.Evaluate(line)

		res := LineResult{Line: lineNo, Expression: line, Err: evalErr}
		if evalErr == nil {
			res.Result = result
			res.ValueRef = fmt.Sprintf("$%d", n)
		}
		report.Results = append(report.Results, res)
	}

	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	return report, nil
}
