package command

import "net/http"

// Builtins returns the static name-to-constructor registry for the built-in
// command variants. The loader merges host-supplied extensions over it;
// extensibility is explicit registration, not introspection.
func Builtins() map[string]Constructor {
	return map[string]Constructor{
		"TextCommand":     newTextFromArgs,
		"InfoCommand":     newTextFromArgs, // historical name for TextCommand
		"FormatCommand":   newFormatFromArgs,
		"JsonCommand":     newJsonFromArgs,
		"ParseCommand":    newParseFromArgs,
		"ChainCommand":    newChainFromArgs,
		"AliasCommand":    newAliasFromArgs,
		"EchoCommand":     newEchoFromArgs,
		"SequenceCommand": newSequenceFromArgs,
		"OptionCommand":   newOptionFromArgs,
		"StateCommand":    newStateFromArgs,
		"MathCommand":     newMathFromArgs,
		"GetCommand":      newHTTPFromArgs(http.MethodGet),
		"PostCommand":     newHTTPFromArgs(http.MethodPost),
		"PatchCommand":    newHTTPFromArgs(http.MethodPatch),
		"DeleteCommand":   newHTTPFromArgs(http.MethodDelete),
	}
}
