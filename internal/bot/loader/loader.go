// Package loader turns the declarative bot-settings document into a live,
// name-resolved command registry. The document lists approved users, initial
// state, and two lists of command descriptors (restricted, public); each
// descriptor is [classOrAlias, name, args...]. Loading is all-or-nothing: a
// schema violation or an unresolvable class name rejects the whole document
// before any command is registered.
package loader

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wstrother/ahp-twitch-bot/internal/bot/command"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/dispatch"
)

//go:embed settings.schema.json
var settingsSchemaJSON string

// Document section keys.
const (
	keyApprovedUsers = "approved_users"
	keyState         = "state"
	keyRestricted    = "restricted"
	keyPublic        = "public"
)

// LoadError reports a rejected settings document. No commands from a
// document that produced a LoadError are ever registered.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load settings: %s: %v", e.Reason, e.Err)
	}
	return "load settings: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// Settings is the decoded, validated settings document.
type Settings struct {
	ApprovedUsers []string
	State         map[string]any
	Restricted    []any
	Public        []any
}

// Loader resolves settings documents against a class registry.
type Loader struct {
	registry map[string]command.Constructor
	schema   *jsonschema.Schema
}

// New creates a Loader over the built-in command variants, with extras (may
// be nil) merged on top. Host applications use extras to add custom variants
// without modifying the core.
func New(extras map[string]command.Constructor) *Loader {
	registry := command.Builtins()
	for name, ctor := range extras {
		registry[name] = ctor
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("settings.schema.json", strings.NewReader(settingsSchemaJSON)); err != nil {
		panic(fmt.Sprintf("loader: embedded schema: %v", err))
	}
	return &Loader{
		registry: registry,
		schema:   compiler.MustCompile("settings.schema.json"),
	}
}

// Load decodes data as YAML (accepting JSON, a YAML subset) and validates it
// against the settings schema.
func (l *Loader) Load(data []byte) (*Settings, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "not valid YAML", Err: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := l.schema.Validate(doc); err != nil {
		return nil, &LoadError{Reason: "document does not match schema", Err: err}
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &LoadError{Reason: fmt.Sprintf("document root must be a mapping, got %T", doc)}
	}

	settings := &Settings{State: map[string]any{}}
	if users, ok := root[keyApprovedUsers].([]any); ok {
		for _, u := range users {
			settings.ApprovedUsers = append(settings.ApprovedUsers, u.(string))
		}
	}
	if st, ok := root[keyState].(map[string]any); ok {
		settings.State = st
	}
	if restricted, ok := root[keyRestricted].([]any); ok {
		settings.Restricted = restricted
	}
	if public, ok := root[keyPublic].([]any); ok {
		settings.Public = public
	}
	return settings, nil
}

// Configure applies settings to bot: approves users, seeds state, and
// constructs and registers every described command. Construction of all
// commands completes before any registration, so a failing descriptor leaves
// the registry empty.
func (l *Loader) Configure(bot *dispatch.Bot, settings *Settings) error {
	bot.ApproveUsers(settings.ApprovedUsers...)
	for key, value := range settings.State {
		bot.State().Set(key, value)
	}

	var built []command.Command
	for _, entry := range settings.Restricted {
		cmd, err := l.buildCommand(bot, true, entry)
		if err != nil {
			return err
		}
		built = append(built, cmd)
	}
	for _, entry := range settings.Public {
		cmd, err := l.buildCommand(bot, false, entry)
		if err != nil {
			return err
		}
		built = append(built, cmd)
	}

	for _, cmd := range built {
		if err := bot.Register(cmd); err != nil {
			return &LoadError{Reason: "register commands", Err: err}
		}
		slog.Debug("command registered", "name", cmd.Name(), "restricted", cmd.Restricted())
	}
	slog.Info("settings applied",
		"approved_users", len(settings.ApprovedUsers),
		"commands", len(built))
	return nil
}

// buildCommand constructs one top-level command from its descriptor.
func (l *Loader) buildCommand(bot command.Bot, restricted bool, entry any) (command.Command, error) {
	descriptor, ok := entry.([]any)
	if !ok || len(descriptor) < 2 {
		return nil, &LoadError{Reason: fmt.Sprintf("descriptor must be [class, name, args...], got %v", entry)}
	}

	className, _ := descriptor[0].(string)
	ctor, ok := l.resolve(descriptor[0]).(command.Constructor)
	if !ok {
		return nil, &LoadError{Reason: fmt.Sprintf("key or class name %q not found", className)}
	}

	name, ok := descriptor[1].(string)
	if !ok {
		return nil, &LoadError{Reason: fmt.Sprintf("command name must be a string, got %T", descriptor[1])}
	}

	args := make([]any, 0, len(descriptor)-2)
	for _, arg := range descriptor[2:] {
		args = append(args, l.resolve(arg))
	}

	cmd, err := ctor(bot, name, restricted, args)
	if err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("command %q", name), Err: err}
	}
	return cmd, nil
}

// resolve recursively substitutes registry keys with their constructors
// through nested descriptor structures. Strings, arrays, and mappings are
// walked in place; anything not matching a registry key passes through as
// literal data.
//
// Known limitation carried from the descriptor format: a string intended as
// a literal value that happens to collide with a registered class name is
// indistinguishable from an identifier and will be substituted.
func (l *Loader) resolve(v any) any {
	switch t := v.(type) {
	case string:
		if ctor, ok := l.registry[t]; ok {
			return ctor
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = l.resolve(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = l.resolve(item)
		}
		return out
	default:
		return v
	}
}
