package command

import (
	"context"
	"fmt"
)

// HTTP issues an outbound request with the invocation message as body. The
// configured URL and header values are templated against current state at
// invocation time. The outcome is whatever the HTTP collaborator returns:
// the decoded JSON body, the raw text body, or a transport-error indicator.
type HTTP struct {
	base
	method  string
	url     string
	headers map[string]string
}

// NewHTTP creates an HTTP command for the given method, URL template, and
// optional header templates.
func NewHTTP(bot Bot, name string, restricted bool, method, url string, headers map[string]string) *HTTP {
	return &HTTP{
		base:    base{bot, name, restricted},
		method:  method,
		url:     url,
		headers: headers,
	}
}

// newHTTPFromArgs builds an args-based constructor bound to one HTTP method.
func newHTTPFromArgs(method string) Constructor {
	return func(bot Bot, name string, restricted bool, args []any) (Command, error) {
		url, err := stringArg(args, 0, "url")
		if err != nil {
			return nil, err
		}
		var headers map[string]string
		if len(args) > 1 {
			raw, ok := args[1].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("headers argument must be a map, got %T", args[1])
			}
			headers = make(map[string]string, len(raw))
			for k, v := range raw {
				s, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("header %q must be a string, got %T", k, v)
				}
				headers[k] = s
			}
		}
		return NewHTTP(bot, name, restricted, method, url, headers), nil
	}
}

func (c *HTTP) Invoke(ctx context.Context, user, message string) (Outcome, error) {
	lookup := stateLookup(c.bot)

	url, err := substitute(c.url, lookup)
	if err != nil {
		return nil, err
	}

	var headers map[string]string
	if len(c.headers) > 0 {
		headers = make(map[string]string, len(c.headers))
		for k, tmpl := range c.headers {
			v, err := substitute(tmpl, lookup)
			if err != nil {
				return nil, err
			}
			headers[k] = v
		}
	}

	return c.bot.HTTP().Request(ctx, c.method, url, message, headers), nil
}
