package console

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/deci/config"
	"github.com/lookbusy1344/deci/decimal"
)

func defaultTestConfig() *config.Config {
	return config.DefaultConfig()
}

func mustEval(t *testing.T, e *Evaluator, expr string) decimal.Decimal {
	t.Helper()
	v, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", expr, err)
	}
	return v
}

func TestLexerTokenizesBasicExpression(t *testing.T) {
	tokens := NewLexer("1.5 + 2 * (3 - $1)").TokenizeAll()

	var kinds []TokenType
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}

	want := []TokenType{
		TokenNumber, TokenOperator, TokenNumber, TokenOperator,
		TokenLParen, TokenNumber, TokenOperator, TokenValueRef, TokenRParen, TokenEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestEvaluatorArithmeticPrecedence(t *testing.T) {
	e := NewEvaluator()
	got := mustEval(t, e, "2 + 3 * 4")
	if decimal.ToText(got) != "14" {
		t.Errorf("2+3*4 = %s, want 14", decimal.ToText(got))
	}
}

func TestEvaluatorParenthesesOverridePrecedence(t *testing.T) {
	e := NewEvaluator()
	got := mustEval(t, e, "(2 + 3) * 4")
	if decimal.ToText(got) != "20" {
		t.Errorf("(2+3)*4 = %s, want 20", decimal.ToText(got))
	}
}

func TestEvaluatorUnaryMinus(t *testing.T) {
	e := NewEvaluator()
	got := mustEval(t, e, "-5 + 2")
	if decimal.ToText(got) != "-3" {
		t.Errorf("-5+2 = %s, want -3", decimal.ToText(got))
	}
}

func TestEvaluatorValueHistoryReference(t *testing.T) {
	e := NewEvaluator()
	mustEval(t, e, "10 / 4") // $1 = 2.5
	got := mustEval(t, e, "$1 * 2")
	want, err := decimal.FromText("5")
	if err != nil {
		t.Fatal(err)
	}
	if !decimal.Equal(got, want) {
		t.Errorf("$1*2 = %s, want 5", decimal.ToText(got))
	}
}

func TestEvaluatorUnknownValueRefErrors(t *testing.T) {
	e := NewEvaluator()
	if _, err := e.Evaluate("$1 + 1"); err == nil {
		t.Fatal("expected an error referencing an empty value history")
	}
}

func TestEvaluatorModOperator(t *testing.T) {
	e := NewEvaluator()
	got := mustEval(t, e, "10 mod 3")
	if decimal.ToText(got) != "1" {
		t.Errorf("10 mod 3 = %s, want 1", decimal.ToText(got))
	}
}

func TestEvaluatorRoundFunctions(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"round(2.5, 1)", "2"},
		{"round(3.5, 1)", "4"},
		{"trunc(1.9, 1)", "1"},
		{"floor(-0.1, 1)", "-1"},
		{"ceil(-0.1, 1)", "0"},
	}
	for _, c := range cases {
		e := NewEvaluator()
		got := mustEval(t, e, c.expr)
		if decimal.ToText(got) != c.want {
			t.Errorf("%s = %s, want %s", c.expr, decimal.ToText(got), c.want)
		}
	}
}

func TestEvaluatorModPercentAlias(t *testing.T) {
	e := NewEvaluator()
	got := mustEval(t, e, "10 % 3")
	if decimal.ToText(got) != "1" {
		t.Errorf("10 %% 3 = %s, want 1", decimal.ToText(got))
	}
}

func TestEvaluatorDivisionByZeroErrors(t *testing.T) {
	e := NewEvaluator()
	if _, err := e.Evaluate("1 / 0"); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func TestCommandHistoryNavigation(t *testing.T) {
	h := NewCommandHistory(10)
	h.Add("1+1")
	h.Add("2+2")
	h.Add("3+3")

	if got := h.Previous(); got != "3+3" {
		t.Errorf("Previous() = %q, want 3+3", got)
	}
	if got := h.Previous(); got != "2+2" {
		t.Errorf("Previous() = %q, want 2+2", got)
	}
	if got := h.Next(); got != "3+3" {
		t.Errorf("Next() = %q, want 3+3", got)
	}
}

func TestCommandHistorySkipsDuplicates(t *testing.T) {
	h := NewCommandHistory(10)
	h.Add("1+1")
	h.Add("1+1")
	if h.Size() != 1 {
		t.Errorf("Size() = %d, want 1 after adding the same command twice", h.Size())
	}
}

func TestCommandHistoryLookupByValueRef(t *testing.T) {
	h := NewCommandHistory(10)
	h.AddResult("1+1", "$1")
	h.AddResult("2+2", "$2")

	got, ok := h.Lookup("$2")
	if !ok || got != "2+2" {
		t.Errorf("Lookup($2) = %q, %v; want 2+2, true", got, ok)
	}
	if _, ok := h.Lookup("$99"); ok {
		t.Error("Lookup($99) should not find an entry")
	}
}

func TestResolveRecallRewritesToPriorExpression(t *testing.T) {
	h := NewCommandHistory(10)
	h.AddResult("3*4", "$1")

	got, ok := resolveRecall("!$1", h)
	if !ok || got != "3*4" {
		t.Errorf("resolveRecall(!$1) = %q, %v; want 3*4, true", got, ok)
	}
	if _, ok := resolveRecall("3*4", h); ok {
		t.Error("resolveRecall should only match !$N lines")
	}
}

func TestREPLRecallsEarlierExpressionByValueRef(t *testing.T) {
	in := strings.NewReader("3*4\n!$1\n")
	var out strings.Builder

	r := NewREPL(defaultTestConfig(), in, &out)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "$1 = 12") || !strings.Contains(out.String(), "$2 = 12") {
		t.Errorf("output %q missing recalled !$1 re-evaluation", out.String())
	}
}

func TestREPLRunPrintsResultsAndHonorsQuit(t *testing.T) {
	in := strings.NewReader("1 + 1\nquit\n2 + 2\n")
	var out strings.Builder

	r := NewREPL(defaultTestConfig(), in, &out)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "$1 = 2") {
		t.Errorf("output %q missing $1 = 2", out.String())
	}
	if strings.Contains(out.String(), "$2") {
		t.Errorf("output %q should not evaluate input after quit", out.String())
	}
}
