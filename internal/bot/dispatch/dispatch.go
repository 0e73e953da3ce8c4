// Package dispatch routes incoming chat lines to commands. The Bot owns the
// command registry, the approved-user set, and the shared state store; it
// performs the single authorization check, serializes outgoing outcomes, and
// records every dispatch in the audit log.
//
// Dispatch is strictly serial: inbound lines are queued and consumed by one
// goroutine per Bot, so commands never run concurrently and shared state has
// a single writer at a time.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wstrother/ahp-twitch-bot/common/trace"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/chatlog"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/command"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/state"
)

// DefaultPrefix is the command invocation prefix.
const DefaultPrefix = "!"

// DefaultMaxMessageLen caps outbound chat lines; longer text is truncated
// with a trailing ellipsis.
const DefaultMaxMessageLen = 500

// inboundQueueSize buffers inbound lines between the transport's read loop
// and the dispatch goroutine. Enqueueing blocks when full, preserving
// arrival order.
const inboundQueueSize = 64

// Sender delivers outbound chat text to the transport.
type Sender interface {
	SendLine(text string)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(text string)

func (f SenderFunc) SendLine(text string) { f(text) }

// Options configures a Bot.
type Options struct {
	// Prefix is the command invocation prefix; defaults to "!".
	Prefix string
	// MaxMessageLen caps outbound line length; defaults to 500.
	MaxMessageLen int
	// UserName is the bot's own chat user name.
	UserName string
	// Sender delivers outbound text; required.
	Sender Sender
	// State is the shared state store; a fresh empty store when nil.
	State *state.Store
	// HTTP performs outbound requests for Http-family commands.
	HTTP command.Requester
	// Log is the optional dispatch audit log.
	Log *chatlog.Store
}

type inbound struct {
	user string
	raw  string
}

// Bot is the dispatcher.
type Bot struct {
	prefix    string
	maxLen    int
	userName  string
	sender    Sender
	state     *state.Store
	http      command.Requester
	log       *chatlog.Store
	commands  map[string]command.Command
	approved  map[string]struct{}
	listeners []*Listener
	queue     chan inbound
}

var _ command.Bot = (*Bot)(nil)

// New creates a Bot from opts.
func New(opts Options) *Bot {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = DefaultMaxMessageLen
	}
	if opts.State == nil {
		opts.State = state.New(nil)
	}
	return &Bot{
		prefix:   opts.Prefix,
		maxLen:   opts.MaxMessageLen,
		userName: opts.UserName,
		sender:   opts.Sender,
		state:    opts.State,
		http:     opts.HTTP,
		log:      opts.Log,
		commands: make(map[string]command.Command),
		approved: make(map[string]struct{}),
		queue:    make(chan inbound, inboundQueueSize),
	}
}

// Register adds cmd to the registry. Names are unique; anonymous commands
// are never inserted.
func (b *Bot) Register(cmd command.Command) error {
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("cannot register an anonymous command")
	}
	if _, exists := b.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	b.commands[name] = cmd
	return nil
}

// Lookup returns the registered command with the given name.
func (b *Bot) Lookup(name string) (command.Command, bool) {
	cmd, ok := b.commands[name]
	return cmd, ok
}

// ApproveUsers adds user names to the approved set. Comparison at dispatch
// time is case-insensitive.
func (b *Bot) ApproveUsers(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b.approved[strings.ToLower(name)] = struct{}{}
	}
}

// IsApproved reports whether user may invoke restricted commands.
func (b *Bot) IsApproved(user string) bool {
	_, ok := b.approved[strings.ToLower(user)]
	return ok
}

// HandleMessage enqueues one inbound chat line for dispatch. It blocks when
// the queue is full so that arrival order is never reordered or dropped.
func (b *Bot) HandleMessage(user, raw string) {
	b.queue <- inbound{user: user, raw: raw}
}

// Run consumes the inbound queue until ctx is cancelled. One line is parsed
// and fully dispatched, including nested steps and blocking network calls,
// before the next is taken.
func (b *Bot) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-b.queue:
			b.Dispatch(ctx, in.user, in.raw)
		}
	}
}

// Dispatch parses and executes one chat line synchronously. Lines without
// the command prefix go to the text-trigger listeners; unknown commands and
// unauthorized restricted invocations are silent no-ops.
func (b *Bot) Dispatch(ctx context.Context, user, raw string) {
	raw = strings.ReplaceAll(raw, "\r", "")

	if !strings.HasPrefix(raw, b.prefix) {
		b.hearMessage(user, raw)
		return
	}

	name, message, _ := strings.Cut(strings.TrimPrefix(raw, b.prefix), " ")
	if name == "" {
		return
	}

	ctx = trace.WithTraceID(ctx, trace.GenerateID())

	cmd, ok := b.commands[name]
	if !ok {
		slog.Debug("unknown command ignored", "command", name, "user", user)
		b.record(ctx, user, name, message, chatlog.ResultUnknown, "")
		return
	}

	if cmd.Restricted() && !b.IsApproved(user) {
		slog.Debug("restricted command denied", "command", name, "user", user)
		b.record(ctx, user, name, message, chatlog.ResultDenied, "")
		return
	}

	outcome, err := b.invoke(ctx, cmd, user, message)
	if err != nil {
		// Format/value/decode failures are part of the command's visible
		// behavior; anything else is still reported rather than crashing
		// the loop.
		slog.Warn("command failed", "command", name, "user", user, "err", err)
		b.Deliver(err)
		b.record(ctx, user, name, message, chatlog.ResultError, err.Error())
		return
	}
	if outcome != nil {
		b.Deliver(outcome)
	}
	b.record(ctx, user, name, message, chatlog.ResultOK, "")
}

// invoke runs cmd, converting a panic during dispatch into an error so a
// single bad command never takes down the loop.
func (b *Bot) invoke(ctx context.Context, cmd command.Command, user, message string) (out command.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return cmd.Invoke(ctx, user, message)
}

// record writes one audit entry when a log is configured. Audit failures
// are logged, never fatal.
func (b *Bot) record(ctx context.Context, user, name, message, result, errMsg string) {
	if b.log == nil {
		return
	}
	entry := chatlog.Entry{
		ID:      uuid.NewString(),
		TraceID: trace.FromContext(ctx),
		User:    user,
		Command: name,
		Message: message,
		Result:  result,
		Err:     errMsg,
	}
	if err := b.log.Record(ctx, entry); err != nil {
		slog.Warn("dispatch audit write failed", "command", name, "err", err)
	}
}

// --- command.Bot ------------------------------------------------------------

// Invoke runs the named registered command and returns its outcome without
// delivering it. An unknown name is a silent no-op, matching top-level
// dispatch behavior.
func (b *Bot) Invoke(ctx context.Context, user, name, message string) (command.Outcome, error) {
	cmd, ok := b.commands[name]
	if !ok {
		slog.Debug("unknown command ignored in step", "command", name, "user", user)
		return nil, nil
	}
	return cmd.Invoke(ctx, user, message)
}

// Call invokes the named command and delivers its outcome outward. It is
// the entry point for state observers and other host-side triggers.
func (b *Bot) Call(ctx context.Context, user, name, message string) {
	outcome, err := b.Invoke(ctx, user, name, message)
	if err != nil {
		slog.Warn("triggered command failed", "command", name, "err", err)
		b.Deliver(err)
		return
	}
	if outcome != nil {
		b.Deliver(outcome)
	}
}

// Deliver serializes an outcome to text, truncates it to the configured
// cap, and sends it outward. Nil outcomes and empty text are dropped.
func (b *Bot) Deliver(outcome command.Outcome) {
	text := command.Stringify(outcome)
	if text == "" {
		return
	}
	b.sender.SendLine(truncate(text, b.maxLen))
}

// SendRaw sends a chat line without serialization or truncation.
func (b *Bot) SendRaw(text string) {
	b.sender.SendLine(text)
}

// State returns the shared state store.
func (b *Bot) State() *state.Store { return b.state }

// HTTP returns the outbound HTTP collaborator.
func (b *Bot) HTTP() command.Requester { return b.http }

// UserName returns the bot's own chat user name.
func (b *Bot) UserName() string { return b.userName }

// truncate bounds text to max runes, replacing the tail with "..." when it
// exceeds the bound.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-4]) + "..."
}
