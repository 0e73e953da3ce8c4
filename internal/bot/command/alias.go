package command

import "context"

// Alias forwards a fixed, pre-configured message to another command,
// ignoring whatever message it was invoked with.
type Alias struct {
	base
	step Step
}

// NewAlias creates an Alias for the named target command and fixed message.
func NewAlias(bot Bot, name string, restricted bool, other, msg string) *Alias {
	return &Alias{
		base: base{bot, name, restricted},
		step: fixedStep(bot, other, msg),
	}
}

func newAliasFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	other, err := stringArg(args, 0, "target command")
	if err != nil {
		return nil, err
	}
	msg, err := stringArg(args, 1, "message")
	if err != nil {
		return nil, err
	}
	return NewAlias(bot, name, restricted, other, msg), nil
}

func (c *Alias) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	return c.step(ctx, user, message)
}

// Echo re-emits its message into chat as an invocation of another command:
// "!<target> <message>". It addresses commands served by other bots in the
// channel, which this bot cannot invoke locally.
type Echo struct {
	base
	target string
}

// NewEcho creates an Echo for the named external command.
func NewEcho(bot Bot, name string, restricted bool, target string) *Echo {
	return &Echo{base: base{bot, name, restricted}, target: target}
}

func newEchoFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	target, err := stringArg(args, 0, "target command")
	if err != nil {
		return nil, err
	}
	return NewEcho(bot, name, restricted, target), nil
}

func (c *Echo) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	c.bot.SendRaw("!" + c.target + " " + message)
	return nil, nil
}
