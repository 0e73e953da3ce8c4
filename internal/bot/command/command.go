// Package command defines the polymorphic command model: the set of command
// variants a bot can be configured with and the uniform invocation contract
// they share. Commands are built once at load time from declarative
// descriptors and never mutated afterwards; composite variants (sequence,
// option, chain, alias) resolve their configured entries into callable steps
// at construction.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wstrother/ahp-twitch-bot/internal/bot/state"
)

// Outcome is the value produced by an invocation: nil for no reply, a string
// for a plain chat reply, a number, or structured data to be serialized
// before leaving the system.
type Outcome = any

// Bot is the dispatcher surface commands reach back into. Invoke runs
// another registered command by name and returns its outcome without
// delivering it; Deliver serializes an outcome and sends it out through
// chat. The split replaces the original output-buffer redirection: a command
// that needs another command's result calls Invoke, a command that wants an
// intermediate result visible in chat calls Deliver.
type Bot interface {
	Invoke(ctx context.Context, user, name, message string) (Outcome, error)
	Deliver(outcome Outcome)
	SendRaw(text string)
	State() *state.Store
	HTTP() Requester
	UserName() string
}

// Requester performs outbound HTTP calls for the Http-family commands.
// Implementations never return a Go error: transport failures degrade to an
// error-indicator outcome.
type Requester interface {
	Request(ctx context.Context, method, url, body string, headers map[string]string) Outcome
}

// Command is one invocable action, named or anonymous.
type Command interface {
	// Name is the registry name; empty for anonymous commands owned by a
	// containing composite.
	Name() string
	// Restricted reports whether only approved users may invoke the command.
	Restricted() bool
	// Invoke runs the command for the given user and message.
	Invoke(ctx context.Context, user, message string) (Outcome, error)
}

// Constructor builds a command variant from loader-resolved arguments. The
// args slice holds literal configuration data in which nested descriptors may
// embed further Constructor values.
type Constructor func(bot Bot, name string, restricted bool, args []any) (Command, error)

// base carries the fields every variant shares.
type base struct {
	bot        Bot
	name       string
	restricted bool
}

func (b base) Name() string     { return b.name }
func (b base) Restricted() bool { return b.restricted }

// Stringify renders an outcome as outbound chat text. Strings pass through
// verbatim, errors and Stringers use their messages, numbers format
// minimally, and structured values serialize as JSON.
func Stringify(o Outcome) string {
	switch v := o.(type) {
	case nil:
		return ""
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// --- constructor argument helpers -------------------------------------------

func stringArg(args []any, i int, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing %s argument", what)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be a string, got %T", what, args[i])
	}
	return s, nil
}

func numberArg(args []any, i int, what string) (f float64, isInt bool, err error) {
	if i >= len(args) {
		return 0, false, fmt.Errorf("missing %s argument", what)
	}
	switch v := args[i].(type) {
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case float64:
		return v, false, nil
	default:
		return 0, false, fmt.Errorf("%s argument must be a number, got %T", what, args[i])
	}
}
