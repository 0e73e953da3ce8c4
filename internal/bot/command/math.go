package command

import (
	"context"
	"fmt"
	"strconv"
)

// Math operations.
const (
	OpAdd = "add"
	OpMul = "mul"
)

// Math parses its message as a number and applies a configured operation
// with a fixed operand. Integer input with an integer operand stays
// integral; a float anywhere promotes the result to float.
type Math struct {
	base
	op           string
	operand      float64
	operandIsInt bool
}

// NewMath creates a Math command for op ("add" or "mul") and operand.
func NewMath(bot Bot, name string, restricted bool, op string, operand float64, operandIsInt bool) (*Math, error) {
	if op != OpAdd && op != OpMul {
		return nil, fmt.Errorf("unknown math operation %q", op)
	}
	return &Math{
		base:         base{bot, name, restricted},
		op:           op,
		operand:      operand,
		operandIsInt: operandIsInt,
	}, nil
}

func newMathFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	op, err := stringArg(args, 0, "operation")
	if err != nil {
		return nil, err
	}
	operand, isInt, err := numberArg(args, 1, "operand")
	if err != nil {
		return nil, err
	}
	return NewMath(bot, name, restricted, op, operand, isInt)
}

func (c *Math) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	if iv, err := strconv.ParseInt(message, 10, 64); err == nil {
		if c.operandIsInt {
			return c.applyInt(iv), nil
		}
		return c.applyFloat(float64(iv)), nil
	}
	if fv, err := strconv.ParseFloat(message, 64); err == nil {
		return c.applyFloat(fv), nil
	}
	return nil, &ValueError{Input: message}
}

func (c *Math) applyInt(v int64) int64 {
	if c.op == OpMul {
		return v * int64(c.operand)
	}
	return v + int64(c.operand)
}

func (c *Math) applyFloat(v float64) float64 {
	if c.op == OpMul {
		return v * c.operand
	}
	return v + c.operand
}
