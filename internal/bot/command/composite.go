package command

import (
	"context"
	"fmt"
	"strings"
)

// Sequence runs several steps in configured order, each receiving the
// original (user, message). It never short-circuits: every step runs exactly
// once per invocation, and each step's non-nil outcome (or error) is
// delivered outward as its own chat line. Sequence itself has no outcome.
type Sequence struct {
	base
	steps []Step
}

// NewSequence creates a Sequence from the given step entries.
func NewSequence(bot Bot, name string, restricted bool, entries ...any) (*Sequence, error) {
	steps := make([]Step, 0, len(entries))
	for i, entry := range entries {
		step, err := resolveEntry(bot, restricted, entry)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return &Sequence{base: base{bot, name, restricted}, steps: steps}, nil
}

func newSequenceFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	return NewSequence(bot, name, restricted, args...)
}

func (c *Sequence) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	for _, step := range c.steps {
		out, err := step(ctx, user, message)
		if err != nil {
			c.bot.Deliver(err)
			continue
		}
		if out != nil {
			c.bot.Deliver(out)
		}
	}
	return nil, nil
}

// Option branches on the first token of the message. A configured branch
// receives the remainder of the message; an unconfigured token yields a
// literal "Option '<token>' not recognized" reply. Keys and their bound
// steps are resolved once at construction.
type Option struct {
	base
	branches map[string]Step
}

// NewOption creates an Option from branch entries. Each entry is either a
// list whose first item is the option key and whose remainder is a step
// entry, or a map from option keys to step entries.
func NewOption(bot Bot, name string, restricted bool, entries ...any) (*Option, error) {
	branches := make(map[string]Step, len(entries))

	bind := func(key string, entry any) error {
		step, err := resolveEntry(bot, restricted, entry)
		if err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		branches[key] = step
		return nil
	}

	for i, entry := range entries {
		switch e := entry.(type) {
		case []any:
			if len(e) < 2 {
				return nil, fmt.Errorf("option entry %d: need a key and a step", i)
			}
			key, ok := e[0].(string)
			if !ok {
				return nil, fmt.Errorf("option entry %d: key must be a string, got %T", i, e[0])
			}
			var step any = e[1:]
			if len(e) == 2 {
				step = e[1]
			}
			if err := bind(key, step); err != nil {
				return nil, err
			}
		case map[string]any:
			for key, step := range e {
				if err := bind(key, step); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("option entry %d: must be a list or map, got %T", i, entry)
		}
	}
	return &Option{base: base{bot, name, restricted}, branches: branches}, nil
}

func newOptionFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	return NewOption(bot, name, restricted, args...)
}

func (c *Option) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	key, remainder, _ := strings.Cut(message, " ")
	step, ok := c.branches[key]
	if !ok {
		return fmt.Sprintf("Option '%s' not recognized", key), nil
	}
	return step(ctx, user, remainder)
}

// Chain pipes one step's outcome into another: the outer step runs first and
// its outcome, stringified, becomes the inner step's message. The inner step
// never observes the pre-chain message.
type Chain struct {
	base
	outer Step
	inner Step
}

// NewChain creates a Chain from outer and inner step entries.
func NewChain(bot Bot, name string, restricted bool, outer, inner any) (*Chain, error) {
	outerStep, err := resolveEntry(bot, restricted, outer)
	if err != nil {
		return nil, fmt.Errorf("outer step: %w", err)
	}
	innerStep, err := resolveEntry(bot, restricted, inner)
	if err != nil {
		return nil, fmt.Errorf("inner step: %w", err)
	}
	return &Chain{base: base{bot, name, restricted}, outer: outerStep, inner: innerStep}, nil
}

func newChainFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("chain needs exactly an outer and an inner step, got %d arguments", len(args))
	}
	return NewChain(bot, name, restricted, args[0], args[1])
}

func (c *Chain) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	captured, err := c.outer(ctx, user, message)
	if err != nil {
		return nil, err
	}
	return c.inner(ctx, user, Stringify(captured))
}
