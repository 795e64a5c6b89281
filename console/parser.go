package console

import (
	"fmt"

	"github.com/lookbusy1344/deci/decimal"
)

// operatorPrecedence gives the binding power of each binary operator, higher
// binds tighter. Mirrors the debugger expression parser's precedence table,
// trimmed to the operators decimal arithmetic actually supports.
var operatorPrecedence = map[string]int{
	"+":   1,
	"-":   1,
	"*":   2,
	"/":   2,
	"%":   2,
	"mod": 2,
}

// roundFunctions maps a console function name onto the kernel round mode
// it applies, covering the four modes spec §4.12 exposes as call syntax;
// the remaining five modes (§4.8) are reachable only via RoundToMultiple
// directly, not from the console grammar.
var roundFunctions = map[string]decimal.RoundMode{
	"round": decimal.HalfEven,
	"trunc": decimal.Truncate,
	"floor": decimal.Floor,
	"ceil":  decimal.Ceil,
}

// Parser is a precedence-climbing parser over arithmetic expressions of
// decimal literals, parentheses and a $N value-history reference. Adapted
// from the ARM debugger's ExprParser, re-targeted from register/memory
// operands to decimal.Decimal values.
type Parser struct {
	tokens []Token
	pos    int
	eval   *Evaluator
}

// NewParser creates a parser over already-lexed tokens, using eval to
// resolve $N value-history references.
func NewParser(tokens []Token, eval *Evaluator) *Parser {
	return &Parser{tokens: tokens, eval: eval}
}

func (p *Parser) currentToken() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.currentToken()
	p.pos++
	return tok
}

// Parse parses the full token stream as a single expression and returns its
// value.
func (p *Parser) Parse() (decimal.Decimal, error) {
	result, err := p.parseExpression(0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if p.currentToken().Type != TokenEOF {
		return decimal.Decimal{}, fmt.Errorf("unexpected token %q at position %d", p.currentToken().Value, p.currentToken().Pos)
	}
	return result, nil
}

func (p *Parser) parseExpression(minPrecedence int) (decimal.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return decimal.Decimal{}, err
	}

	for {
		tok := p.currentToken()
		if tok.Type != TokenOperator && !(tok.Type == TokenIdent && tok.Value == "mod") {
			break
		}
		prec, ok := operatorPrecedence[tok.Value]
		if !ok || prec < minPrecedence {
			break
		}
		p.advance()

		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return decimal.Decimal{}, err
		}

		left, err = applyOperator(tok.Value, left, right)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}

	return left, nil
}

func (p *Parser) parseUnary() (decimal.Decimal, error) {
	tok := p.currentToken()
	if tok.Type == TokenOperator && tok.Value == "-" {
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return v.Neg(), nil
	}
	if tok.Type == TokenOperator && tok.Value == "+" {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (decimal.Decimal, error) {
	tok := p.advance()

	switch tok.Type {
	case TokenNumber:
		v, err := decimal.FromText(tok.Value)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid number %q: %w", tok.Value, err)
		}
		return v, nil

	case TokenValueRef:
		n, err := parseValueRefIndex(tok.Value)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return p.eval.GetValue(n)

	case TokenLParen:
		v, err := p.parseExpression(0)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if p.currentToken().Type != TokenRParen {
			return decimal.Decimal{}, fmt.Errorf("expected ) at position %d", p.currentToken().Pos)
		}
		p.advance()
		return v, nil

	case TokenIdent:
		mode, ok := roundFunctions[tok.Value]
		if !ok {
			return decimal.Decimal{}, fmt.Errorf("unknown function %q at position %d", tok.Value, tok.Pos)
		}
		return p.parseRoundCall(mode)

	case TokenEOF:
		return decimal.Decimal{}, fmt.Errorf("unexpected end of expression")

	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
	}
}

// parseRoundCall parses the "( expr , expr )" argument list following a
// round-mode function name and applies RoundToMultiple with mode.
func (p *Parser) parseRoundCall(mode decimal.RoundMode) (decimal.Decimal, error) {
	if p.currentToken().Type != TokenLParen {
		return decimal.Decimal{}, fmt.Errorf("expected ( at position %d", p.currentToken().Pos)
	}
	p.advance()

	a, err := p.parseExpression(0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if p.currentToken().Type != TokenComma {
		return decimal.Decimal{}, fmt.Errorf("expected , at position %d", p.currentToken().Pos)
	}
	p.advance()

	b, err := p.parseExpression(0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if p.currentToken().Type != TokenRParen {
		return decimal.Decimal{}, fmt.Errorf("expected ) at position %d", p.currentToken().Pos)
	}
	p.advance()

	return decimal.RoundToMultiple(a, b, mode)
}

func parseValueRefIndex(s string) (int, error) {
	n := 0
	if len(s) < 2 || s[0] != '$' {
		return 0, fmt.Errorf("malformed value reference %q", s)
	}
	for _, ch := range s[1:] {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("malformed value reference %q", s)
		}
		n = n*10 + int(ch-'0')
	}
	return n, nil
}

func applyOperator(op string, left, right decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case "+":
		return decimal.Add(left, right)
	case "-":
		return decimal.Sub(left, right)
	case "*":
		return decimal.Mul(left, right)
	case "/":
		return decimal.Div(left, right)
	case "mod", "%":
		return decimal.Mod(left, right)
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown operator %q", op)
	}
}
