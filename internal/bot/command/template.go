package command

import "strings"

// lookupFunc resolves a placeholder key to a value.
type lookupFunc func(key string) (any, bool)

// stateLookup resolves keys against the bot's shared state.
func stateLookup(bot Bot) lookupFunc {
	return func(key string) (any, bool) {
		return bot.State().Get(key)
	}
}

// invocationLookup resolves the reserved "user" and "message" keys before
// falling back to shared state.
func invocationLookup(bot Bot, user, message string) lookupFunc {
	return func(key string) (any, bool) {
		switch key {
		case "user":
			return user, true
		case "message":
			return message, true
		}
		return bot.State().Get(key)
	}
}

// substitute replaces {key}-style placeholders in tmpl. A placeholder whose
// key does not resolve yields a FormatError. Text outside placeholders and
// unbalanced braces pass through unchanged.
func substitute(tmpl string, lookup lookupFunc) (string, error) {
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String(), nil
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			return b.String(), nil
		}
		key := tmpl[i+1 : i+j]
		v, ok := lookup(key)
		if !ok {
			return "", &FormatError{Key: key}
		}
		b.WriteString(tmpl[:i])
		b.WriteString(Stringify(v))
		tmpl = tmpl[i+j+1:]
	}
}

// substituteValue applies substitute recursively through a structured
// (object/array/scalar) value, returning a new value of the same shape.
// Non-string scalars pass through unchanged.
func substituteValue(v any, lookup lookupFunc) (any, error) {
	switch t := v.(type) {
	case string:
		return substitute(t, lookup)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			sub, err := substituteValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			sub, err := substituteValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}
