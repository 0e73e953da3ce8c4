package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/wstrother/ahp-twitch-bot/internal/bot/command"
	"github.com/wstrother/ahp-twitch-bot/internal/bot/dispatch"
)

// State keys with reactive behavior, and the commands their changes trigger.
// The trigger commands are looked up at invocation time; a settings document
// that does not define them simply has no reactive behavior for that key.
const (
	layoutKey     = "layout"
	layoutCommand = "post_layout"

	titleKey     = "title"
	tagKey       = "title_tag"
	titleCommand = "st"

	gameKey     = "game"
	gameCommand = "sg"
)

// wireStateObservers registers the stream-info observers: changing the title
// or title tag re-announces the composed title, changing the game
// re-announces the game, and changing the layout map posts the changed
// entries to the layout command.
func wireStateObservers(bot *dispatch.Bot) {
	st := bot.State()

	announceTitle := func(old, new any) {
		title, _ := st.Get(titleKey)
		tag, _ := st.Get(tagKey)
		msg := command.Stringify(title)
		if t := command.Stringify(tag); t != "" {
			msg += " " + t
		}
		bot.Call(context.Background(), bot.UserName(), titleCommand, msg)
	}
	st.Observe(titleKey, announceTitle)
	st.Observe(tagKey, announceTitle)

	st.Observe(gameKey, func(old, new any) {
		bot.Call(context.Background(), bot.UserName(), gameCommand, command.Stringify(new))
	})

	st.Observe(layoutKey, func(old, new any) {
		diff := layoutDiff(old, new)
		if len(diff) == 0 {
			return
		}
		data, err := json.Marshal(diff)
		if err != nil {
			slog.Warn("layout diff marshal failed", "err", err)
			return
		}
		bot.Call(context.Background(), bot.UserName(), layoutCommand, string(data))
	})
}

// layoutDiff returns the entries of new whose values differ from old.
func layoutDiff(old, new any) map[string]any {
	newMap, ok := new.(map[string]any)
	if !ok {
		return nil
	}
	oldMap, _ := old.(map[string]any)

	diff := make(map[string]any)
	for k, v := range newMap {
		if ov, had := oldMap[k]; !had || !equalValues(ov, v) {
			diff[k] = v
		}
	}
	return diff
}

func equalValues(a, b any) bool {
	da, errA := json.Marshal(a)
	db, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(da) == string(db)
}
