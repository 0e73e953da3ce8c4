package command

import "context"

// Text replies with a fixed string.
type Text struct {
	base
	text string
}

// NewText creates a Text command.
func NewText(bot Bot, name string, restricted bool, text string) *Text {
	return &Text{base: base{bot, name, restricted}, text: text}
}

func newTextFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	text, err := stringArg(args, 0, "text")
	if err != nil {
		return nil, err
	}
	return NewText(bot, name, restricted, text), nil
}

func (c *Text) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	return c.text, nil
}

// Format replies with a template whose {key} placeholders are substituted
// from current state at invocation time.
type Format struct {
	base
	format string
}

// NewFormat creates a Format command.
func NewFormat(bot Bot, name string, restricted bool, format string) *Format {
	return &Format{base: base{bot, name, restricted}, format: format}
}

func newFormatFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	format, err := stringArg(args, 0, "format")
	if err != nil {
		return nil, err
	}
	return NewFormat(bot, name, restricted, format), nil
}

func (c *Format) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	out, err := substitute(c.format, stateLookup(c.bot))
	if err != nil {
		return nil, err
	}
	return out, nil
}
