package dispatch

import "strings"

// Listener reacts to chat lines that are not command invocations. It fires
// when Trigger occurs anywhere in the message and, when User is set, only
// for that user's messages.
type Listener struct {
	// Trigger is the substring that activates the listener.
	Trigger string
	// User restricts the listener to one user's messages; empty matches any
	// user. Comparison is case-insensitive.
	User string
	// Temp marks the listener one-shot: it removes itself after firing.
	Temp bool
	// Do is the side effect, invoked with the sender and full message.
	Do func(user, message string)
}

// AddListener registers a chat listener.
func (b *Bot) AddListener(l *Listener) {
	b.listeners = append(b.listeners, l)
}

// RemoveListener unregisters a previously added listener.
func (b *Bot) RemoveListener(l *Listener) {
	for i, existing := range b.listeners {
		if existing == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// hearMessage feeds a non-command line to every matching listener. Temp
// listeners are removed before their side effect runs, so a listener that
// itself provokes chat traffic cannot fire twice.
func (b *Bot) hearMessage(user, message string) {
	matched := make([]*Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		if !strings.Contains(message, l.Trigger) {
			continue
		}
		if l.User != "" && !strings.EqualFold(l.User, user) {
			continue
		}
		matched = append(matched, l)
	}
	for _, l := range matched {
		if l.Temp {
			b.RemoveListener(l)
		}
		l.Do(user, message)
	}
}
