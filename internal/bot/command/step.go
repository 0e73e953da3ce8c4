package command

import (
	"context"
	"fmt"
	"strings"
)

// Step is a resolved callable target used inside composite commands. It
// returns its outcome directly; delivery is the caller's concern.
type Step func(ctx context.Context, user, message string) (Outcome, error)

// resolveEntry normalizes the shorthand forms a composite's configuration
// may use for "invoke this other thing":
//
//   - a bare name: forwards the runtime (user, message) unchanged to the
//     named command;
//   - a list starting with a Constructor: builds an anonymous command with
//     the composite's bot and restriction context and uses its Invoke;
//   - a list starting with a name: forwards a fixed message (the remaining
//     list items joined by spaces), discarding the runtime message.
func resolveEntry(bot Bot, restricted bool, entry any) (Step, error) {
	switch e := entry.(type) {
	case string:
		return namedStep(bot, e), nil
	case []any:
		return resolveEntryList(bot, restricted, e)
	default:
		return nil, fmt.Errorf("cannot resolve step entry of type %T", entry)
	}
}

// resolveEntryList handles the two list-shaped entry forms.
func resolveEntryList(bot Bot, restricted bool, entry []any) (Step, error) {
	if len(entry) == 0 {
		return nil, fmt.Errorf("empty step entry")
	}
	switch head := entry[0].(type) {
	case Constructor:
		cmd, err := head(bot, "", restricted, entry[1:])
		if err != nil {
			return nil, fmt.Errorf("anonymous command: %w", err)
		}
		return cmd.Invoke, nil
	case string:
		if len(entry) == 1 {
			return namedStep(bot, head), nil
		}
		fixed := make([]string, 0, len(entry)-1)
		for _, arg := range entry[1:] {
			fixed = append(fixed, Stringify(arg))
		}
		return fixedStep(bot, head, strings.Join(fixed, " ")), nil
	default:
		return nil, fmt.Errorf("step entry must start with a command name or descriptor, got %T", entry[0])
	}
}

// namedStep forwards the runtime (user, message) to the named command.
func namedStep(bot Bot, name string) Step {
	return func(ctx context.Context, user, message string) (Outcome, error) {
		return bot.Invoke(ctx, user, name, message)
	}
}

// fixedStep forwards a pre-configured message to the named command,
// discarding whatever message arrived at runtime.
func fixedStep(bot Bot, name, fixed string) Step {
	return func(ctx context.Context, user, _ string) (Outcome, error) {
		return bot.Invoke(ctx, user, name, fixed)
	}
}
