package console

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/deci/config"
)

// TUI is the full-screen calculator console: a scrolling transcript of
// expressions and results above a single command input line. Adapted from
// the ARM debugger's TUI, trimmed from its many register/memory/source
// panels down to the one transcript a decimal calculator needs.
type TUI struct {
	Eval    *Evaluator
	History *CommandHistory
	cfg     *config.Config

	App          *tview.Application
	Layout       *tview.Flex
	Transcript   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI builds a TUI backed by cfg's prompt and history settings.
func NewTUI(cfg *config.Config) *TUI {
	t := &TUI{
		Eval:    NewEvaluator(),
		History: NewCommandHistory(cfg.Console.HistorySize),
		cfg:     cfg,
		App:     tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.Transcript = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.Transcript.SetBorder(true).SetTitle(" deci ")

	t.CommandInput = tview.NewInputField().
		SetLabel(t.cfg.Console.Prompt).
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" expression ")
	t.CommandInput.SetDoneFunc(t.handleInput)
}

func (t *TUI) buildLayout() {
	t.Layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.Transcript, 0, 1, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyUp:
			if prev := t.History.Previous(); prev != "" {
				t.CommandInput.SetText(prev)
			}
			return nil
		case tcell.KeyDown:
			t.CommandInput.SetText(t.History.Next())
			return nil
		}
		return event
	})
}

func (t *TUI) handleInput(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := t.CommandInput.GetText()
	if line == "" {
		return
	}
	t.CommandInput.SetText("")

	if line == "quit" || line == "exit" {
		t.App.Stop()
		return
	}
	if recalled, ok := resolveRecall(line, t.History); ok {
		line = recalled
	}

	t.executeExpression(line)
}

func (t *TUI) executeExpression(line string) {
	result, err := t.Eval.Evaluate(line)
	if err != nil {
		t.History.Add(line)
		fmt.Fprintf(t.Transcript, "[red]%s\n  error: %v[white]\n", line, err)
		return
	}
	ref := fmt.Sprintf("$%d", t.Eval.ValueNumber()-1)
	t.History.AddResult(line, ref)
	fmt.Fprintf(t.Transcript, "%s\n  %s = %s\n", line, ref, t.cfg.FormatValue(result))
	t.Transcript.ScrollToEnd()
}

// Run starts the TUI event loop; it blocks until the user quits.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.Layout, true).SetFocus(t.CommandInput).Run()
}

// Stop terminates the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
