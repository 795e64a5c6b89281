package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lookbusy1344/deci/config"
)

// REPL is the line-mode interactive calculator console: read an
// expression, evaluate it, print the result, store it in history. Adapted
// from the ARM debugger's RunCLI loop, with instruction stepping replaced
// by a single evaluate-and-print step.
type REPL struct {
	Eval    *Evaluator
	History *CommandHistory
	cfg     *config.Config
	in      *bufio.Scanner
	out     io.Writer
}

// NewREPL builds a REPL reading from in and writing to out, configured by
// cfg (prompt text and history size).
func NewREPL(cfg *config.Config, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		Eval:    NewEvaluator(),
		History: NewCommandHistory(cfg.Console.HistorySize),
		cfg:     cfg,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run drives the read-eval-print loop until EOF or a quit command.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, r.cfg.Console.Prompt)

		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())

		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			break
		}
		if recalled, ok := resolveRecall(line, r.History); ok {
			line = recalled
		}

		result, err := r.Eval.Evaluate(line)
		if err != nil {
			r.History.Add(line)
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}

		ref := fmt.Sprintf("$%d", r.Eval.ValueNumber()-1)
		r.History.AddResult(line, ref)
		fmt.Fprintf(r.out, "%s = %s\n", ref, r.cfg.FormatValue(result))
	}

	return r.in.Err()
}
