package command

import "context"

// State writes its message into shared state. The state key defaults to the
// command's own name; an ordered sequence of sub-keys indexes into nested
// containers, which must already exist.
type State struct {
	base
	key     string
	subKeys []string
}

// NewState creates a State command writing at key. An empty key falls back
// to the command name.
func NewState(bot Bot, name string, restricted bool, key string, subKeys ...string) *State {
	if key == "" {
		key = name
	}
	return &State{base: base{bot, name, restricted}, key: key, subKeys: subKeys}
}

func newStateFromArgs(bot Bot, name string, restricted bool, args []any) (Command, error) {
	key := ""
	if len(args) > 0 {
		k, err := stringArg(args, 0, "state key")
		if err != nil {
			return nil, err
		}
		key = k
	}
	subKeys := make([]string, 0, len(args))
	for i := 1; i < len(args); i++ {
		sub, err := stringArg(args, i, "sub-key")
		if err != nil {
			return nil, err
		}
		subKeys = append(subKeys, sub)
	}
	return NewState(bot, name, restricted, key, subKeys...), nil
}

func (c *State) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	if err := c.bot.State().SetPath(c.key, c.subKeys, message); err != nil {
		return nil, err
	}
	return nil, nil
}
