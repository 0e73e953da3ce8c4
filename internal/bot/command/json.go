package command

import (
	"context"
	"encoding/json"
	"fmt"
)

// Json replies with a structured payload whose strings are substituted
// recursively from state, plus the reserved {user} and {message} keys. When
// the payload is configured as a string, the substituted text is decoded as
// JSON before being returned, so templated JSON documents can be written
// inline in the settings file.
type Json struct {
	base
	payload    any
	decodeText bool
}

// NewJson creates a Json command over the given payload.
func NewJson(bot Bot, name string, restricted bool, payload any) *Json {
	_, isText := payload.(string)
	return &Json{base: base{bot, name, restricted}, payload: payload, decodeText: isText}
}

func newJsonFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("missing payload argument")
	}
	return NewJson(bot, name, restricted, args[0]), nil
}

func (c *Json) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	out, err := substituteValue(c.payload, invocationLookup(c.bot, user, message))
	if err != nil {
		return nil, err
	}
	if c.decodeText {
		var decoded any
		if err := json.Unmarshal([]byte(out.(string)), &decoded); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return decoded, nil
	}
	return out, nil
}

// Parse decodes the incoming message as JSON and returns the structured
// result, typically to feed a State command through a chain.
type Parse struct {
	base
}

// NewParse creates a Parse command.
func NewParse(bot Bot, name string, restricted bool) *Parse {
	return &Parse{base: base{bot, name, restricted}}
}

func newParseFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	return NewParse(bot, name, restricted), nil
}

func (c *Parse) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	var decoded any
	if err := json.Unmarshal([]byte(message), &decoded); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return decoded, nil
}
