package dispatch_test

import (
	"context"
	"strings"
	"testing"

	"github.com/wstrother/ahp-twitch-bot/internal/bot/command"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/dispatch"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/state"
)

// newTestBot builds a Bot whose outbound lines are captured in the returned
// slice pointer.
func newTestBot(t *testing.T, opts dispatch.Options) (*dispatch.Bot, *[]string) {
	t.Helper()
	var sent []string
	opts.Sender = dispatch.SenderFunc(func(text string) { sent = append(sent, text) })
	if opts.UserName == "" {
		opts.UserName = "test_bot"
	}
	return dispatch.New(opts), &sent
}

func mustRegister(t *testing.T, bot *dispatch.Bot, cmd command.Command) {
	t.Helper()
	if err := bot.Register(cmd); err != nil {
		t.Fatalf("Register(%s): %v", cmd.Name(), err)
	}
}

func TestDispatchInvokesPrefixedCommand(t *testing.T) {
	bot, sent := newTestBot(t, dispatch.Options{})
	mustRegister(t, bot, command.NewText(bot, "hello", false, "hi chat"))

	bot.Dispatch(context.Background(), "viewer", "!hello")

	if len(*sent) != 1 || (*sent)[0] != "hi chat" {
		t.Errorf("sent = %v", *sent)
	}
}

func TestDispatchPassesMessageRemainder(t *testing.T) {
	st := state.New(nil)
	bot, _ := newTestBot(t, dispatch.Options{State: st})
	mustRegister(t, bot, command.NewState(bot, "title", false, ""))

	bot.Dispatch(context.Background(), "viewer", "!title Super Metroid any%\r")

	if v, _ := st.Get("title"); v != "Super Metroid any%" {
		t.Errorf("title = %v", v)
	}
}

func TestDispatchUnknownCommandIsSilent(t *testing.T) {
	bot, sent := newTestBot(t, dispatch.Options{})

	bot.Dispatch(context.Background(), "viewer", "!nosuch thing")

	if len(*sent) != 0 {
		t.Errorf("sent = %v, want nothing", *sent)
	}
}

func TestDispatchNonPrefixedLineIsNotACommand(t *testing.T) {
	bot, sent := newTestBot(t, dispatch.Options{})
	mustRegister(t, bot, command.NewText(bot, "hello", false, "hi chat"))

	bot.Dispatch(context.Background(), "viewer", "hello everyone")

	if len(*sent) != 0 {
		t.Errorf("sent = %v, want nothing", *sent)
	}
}

func TestRestrictedCommandDenied(t *testing.T) {
	st := state.New(map[string]any{"title": "before"})
	bot, sent := newTestBot(t, dispatch.Options{State: st})
	mustRegister(t, bot, command.NewState(bot, "title", true, ""))

	bot.Dispatch(context.Background(), "random_viewer", "!title hijacked")

	if len(*sent) != 0 {
		t.Errorf("sent = %v, want nothing", *sent)
	}
	if v, _ := st.Get("title"); v != "before" {
		t.Errorf("title = %v, state must be unchanged", v)
	}
}

func TestRestrictedCommandApprovedCaseInsensitive(t *testing.T) {
	st := state.New(nil)
	bot, _ := newTestBot(t, dispatch.Options{State: st})
	bot.ApproveUsers("StreamerName")
	mustRegister(t, bot, command.NewState(bot, "title", true, ""))

	bot.Dispatch(context.Background(), "streamername", "!title allowed")

	if v, _ := st.Get("title"); v != "allowed" {
		t.Errorf("title = %v", v)
	}
}

func TestCommandErrorDeliveredAsText(t *testing.T) {
	bot, sent := newTestBot(t, dispatch.Options{})
	cmd, err := command.NewMath(bot, "plus5", false, command.OpAdd, 5, true)
	if err != nil {
		t.Fatalf("NewMath: %v", err)
	}
	mustRegister(t, bot, cmd)

	bot.Dispatch(context.Background(), "viewer", "!plus5 notanumber")

	if len(*sent) != 1 || !strings.Contains((*sent)[0], "notanumber") {
		t.Errorf("sent = %v, want the value error message", *sent)
	}
}

func TestOutboundTruncation(t *testing.T) {
	bot, sent := newTestBot(t, dispatch.Options{})
	long := strings.Repeat("x", 600)
	mustRegister(t, bot, command.NewText(bot, "wall", false, long))

	bot.Dispatch(context.Background(), "viewer", "!wall")

	if len(*sent) != 1 {
		t.Fatalf("sent = %v", *sent)
	}
	got := (*sent)[0]
	if len([]rune(got)) != 499 {
		t.Errorf("len = %d, want 499", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated line must end in ellipsis, got tail %q", got[len(got)-8:])
	}
	if !strings.HasPrefix(got, strings.Repeat("x", 496)) {
		t.Error("truncated line lost leading content")
	}
}

func TestRegisterRejectsDuplicatesAndAnonymous(t *testing.T) {
	bot, _ := newTestBot(t, dispatch.Options{})
	mustRegister(t, bot, command.NewText(bot, "hello", false, "a"))

	if err := bot.Register(command.NewText(bot, "hello", false, "b")); err == nil {
		t.Error("duplicate registration accepted")
	}
	if err := bot.Register(command.NewText(bot, "", false, "b")); err == nil {
		t.Error("anonymous registration accepted")
	}
}

func TestListenerTriggersOnSubstring(t *testing.T) {
	bot, _ := newTestBot(t, dispatch.Options{})

	var heard []string
	bot.AddListener(&dispatch.Listener{
		Trigger: "good bot",
		Do: func(user, message string) {
			heard = append(heard, user+": "+message)
		},
	})

	bot.Dispatch(context.Background(), "viewer", "such a good bot today")
	bot.Dispatch(context.Background(), "viewer", "bad bot")

	if len(heard) != 1 || heard[0] != "viewer: such a good bot today" {
		t.Errorf("heard = %v", heard)
	}
}

func TestListenerUserFilterAndTemp(t *testing.T) {
	bot, _ := newTestBot(t, dispatch.Options{})

	var count int
	bot.AddListener(&dispatch.Listener{
		Trigger: "ready",
		User:    "Streamer",
		Temp:    true,
		Do:      func(user, message string) { count++ },
	})

	bot.Dispatch(context.Background(), "viewer", "ready when you are")
	if count != 0 {
		t.Fatal("listener fired for wrong user")
	}

	bot.Dispatch(context.Background(), "streamer", "ready now")
	bot.Dispatch(context.Background(), "streamer", "ready again")
	if count != 1 {
		t.Errorf("temp listener fired %d times, want 1", count)
	}
}

func TestRunConsumesQueue(t *testing.T) {
	st := state.New(nil)
	bot, _ := newTestBot(t, dispatch.Options{State: st})

	done := make(chan struct{})
	mustRegister(t, bot, command.NewText(bot, "hello", false, "hi"))
	bot.AddListener(&dispatch.Listener{
		Trigger: "stop",
		Do:      func(user, message string) { close(done) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bot.Run(ctx)

	bot.HandleMessage("viewer", "!hello")
	bot.HandleMessage("viewer", "stop")

	<-done
}
