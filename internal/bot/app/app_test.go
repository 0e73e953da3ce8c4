package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot_settings.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestNewAssemblesBotFromSettings(t *testing.T) {
	path := writeSettings(t, `
approved_users: [trusted_mod]
state:
  title: "Untitled"
restricted:
  - [StateCommand, title]
public:
  - [TextCommand, discord, "link in panel"]
`)
	a, err := New(&Config{
		UserName:     "ahp_bot",
		Token:        "testtoken",
		Channel:      "ahp_streams",
		SettingsPath: path,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Stop()

	bot := a.Bot()
	if _, ok := bot.Lookup("title"); !ok {
		t.Error("restricted command not registered")
	}
	if _, ok := bot.Lookup("discord"); !ok {
		t.Error("public command not registered")
	}
	// The channel owner is implicitly approved.
	if !bot.IsApproved("AHP_Streams") {
		t.Error("channel owner not approved")
	}
	if !bot.IsApproved("trusted_mod") {
		t.Error("settings-approved user not approved")
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	path := writeSettings(t, `
public:
  - [NoSuchCommand, broken, "arg"]
`)
	_, err := New(&Config{
		UserName:     "ahp_bot",
		Token:        "testtoken",
		Channel:      "ahp_streams",
		SettingsPath: path,
	})
	if err == nil {
		t.Fatal("expected an error for an unresolvable class")
	}
}

func TestNewMissingSettingsFile(t *testing.T) {
	_, err := New(&Config{
		UserName:     "ahp_bot",
		Token:        "testtoken",
		Channel:      "ahp_streams",
		SettingsPath: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing settings file")
	}
}
