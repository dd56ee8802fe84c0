package core

import (
	"fmt"
	"math"
	"strings"
)

// Operator determines how a pattern's impact combines with its target value.
type Operator string

// All supported operators.
const (
	OpAdd      Operator = "add"
	OpSubtract Operator = "subtract"
	OpMultiply Operator = "multiply"
	OpDivide   Operator = "divide"
	OpReplace  Operator = "replace"
	OpPower    Operator = "power"
)

// validOperators maps accepted spellings to operators.
var validOperators = map[string]Operator{
	"add":      OpAdd,
	"subtract": OpSubtract,
	"sub":      OpSubtract,
	"multiply": OpMultiply,
	"mul":      OpMultiply,
	"divide":   OpDivide,
	"div":      OpDivide,
	"replace":  OpReplace,
	"power":    OpPower,
	"quad":     OpPower,
}

// ParseOperator resolves an operator name, case-insensitively.
func ParseOperator(s string) (Operator, error) {
	op, ok := validOperators[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
	return op, nil
}

func (o Operator) valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpReplace, OpPower:
		return true
	default:
		return false
	}
}

// Apply combines value and impact.
func (o Operator) Apply(value, impact float64) (float64, error) {
	switch o {
	case OpAdd:
		return value + impact, nil
	case OpSubtract:
		return value - impact, nil
	case OpMultiply:
		return value * impact, nil
	case OpDivide:
		if impact == 0 {
			return value, ErrDivisionByZero
		}
		return value / impact, nil
	case OpReplace:
		return impact, nil
	case OpPower:
		return math.Pow(value, impact), nil
	default:
		return value, fmt.Errorf("%w: %q", ErrUnknownOperator, string(o))
	}
}

// Symbol returns a short arithmetic symbol for display.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpReplace:
		return "="
	case OpPower:
		return "^"
	default:
		return "?"
	}
}
