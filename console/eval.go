package console

import (
	"fmt"

	"github.com/lookbusy1344/deci/decimal"
)

// Evaluator evaluates arithmetic expressions over decimal literals and
// keeps a history of results addressable as $1, $2, .... Adapted from the
// ARM debugger's ExpressionEvaluator, with uint32 register values replaced
// by decimal.Decimal results.
type Evaluator struct {
	valueHistory []decimal.Decimal
}

// NewEvaluator creates an evaluator with an empty value history.
func NewEvaluator() *Evaluator {
	return &Evaluator{valueHistory: make([]decimal.Decimal, 0)}
}

// Evaluate parses and evaluates expr, appending the result to the value
// history.
func (e *Evaluator) Evaluate(expr string) (decimal.Decimal, error) {
	tokens := NewLexer(expr).TokenizeAll()
	result, err := NewParser(tokens, e).Parse()
	if err != nil {
		return decimal.Decimal{}, err
	}

	e.valueHistory = append(e.valueHistory, result)
	return result, nil
}

// GetValue returns the nth historical result, 1-indexed as $1, $2, ....
func (e *Evaluator) GetValue(number int) (decimal.Decimal, error) {
	if number < 1 || number > len(e.valueHistory) {
		return decimal.Decimal{}, fmt.Errorf("value $%d not in history", number)
	}
	return e.valueHistory[number-1], nil
}

// ValueNumber returns the number that the next evaluation result will be
// addressable as.
func (e *Evaluator) ValueNumber() int {
	return len(e.valueHistory) + 1
}

// LastValue returns the most recent result, if any.
func (e *Evaluator) LastValue() (decimal.Decimal, bool) {
	if len(e.valueHistory) == 0 {
		return decimal.Decimal{}, false
	}
	return e.valueHistory[len(e.valueHistory)-1], true
}

// History returns a copy of every value computed so far, in order.
func (e *Evaluator) History() []decimal.Decimal {
	out := make([]decimal.Decimal, len(e.valueHistory))
	copy(out, e.valueHistory)
	return out
}
