package control

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	tele "gopkg.in/telebot.v3"

	"cgplayout/pkg/layer"
	"cgplayout/pkg/moderation"
	"cgplayout/pkg/playout"
)

func NewBot(token string, admins []int64, app *playout.App, queue *moderation.Queue) (*Bot, error) {
	pref := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout: 30 * time.Second,
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	return newBot(b, admins, app, queue), nil
}

func newBot(b *tele.Bot, admins []int64, app *playout.App, queue *moderation.Queue) *Bot {
	return &Bot{
		b:      b,
		admins: admins,
		app:    app,
		queue:  queue,
	}
}

// Bot is the operator surface. Anyone may send text, which is queued for
// moderation; commands are limited to the admin ids.
type Bot struct {
	b      *tele.Bot
	admins []int64
	app    *playout.App
	queue  *moderation.Queue
}

func (b *Bot) isAdmin(id int64) bool {
	return lo.Contains(b.admins, id)
}

func (b *Bot) admin(fn func(payload string) string) tele.HandlerFunc {
	return func(context tele.Context) error {
		if !b.isAdmin(context.Sender().ID) {
			return context.Reply("Not allowed")
		}
		return context.Reply(fn(context.Message().Payload))
	}
}

func (b *Bot) handleQueue() {
	b.b.Handle("/queue", b.admin(b.listQueue))
	b.b.Handle("/approve", b.admin(b.approve))
	b.b.Handle("/reject", b.admin(b.reject))

	b.b.Handle(tele.OnText, func(context tele.Context) error {
		from := context.Sender().Username
		if from == "" {
			from = context.Sender().FirstName
		}
		if _, err := b.queue.Enqueue(from, context.Text()); err != nil {
			return context.Reply(fmt.Sprintf("queue failed: %s", err))
		}
		return context.Reply("Thanks, your message is waiting for approval")
	})
}

func (b *Bot) handleLayers() {
	b.b.Handle("/layers", b.admin(b.listLayers))
	b.b.Handle("/show", b.admin(func(id string) string {
		return b.visible(id, true)
	}))
	b.b.Handle("/hide", b.admin(func(id string) string {
		return b.visible(id, false)
	}))
	b.b.Handle("/timer", b.admin(b.timer))
	b.b.Handle("/reload", b.admin(b.reload))
}

func (b *Bot) handlePlayback() {
	b.b.Handle("/play", b.admin(b.play))
	b.b.Handle("/pause", b.admin(b.pause))
}

func (b *Bot) listQueue(string) string {
	pending := b.queue.Pending()
	if len(pending) == 0 {
		return "Queue is empty"
	}

	lines := lo.Map(pending, func(m moderation.Message, _ int) string {
		return fmt.Sprintf("%s %s: %s", m.ID, m.From, m.Text)
	})
	return strings.Join(lines, "\n")
}

func (b *Bot) ids(payload string) []string {
	if strings.TrimSpace(payload) == "all" {
		return lo.Map(b.queue.Pending(), func(m moderation.Message, _ int) string {
			return m.ID
		})
	}
	return strings.Fields(payload)
}

func (b *Bot) moderate(payload string, fn func(id string) (moderation.Message, error)) string {
	ids := b.ids(payload)
	if len(ids) == 0 {
		return "Usage: <id>... or all"
	}

	var failed []string
	for _, id := range ids {
		if _, err := fn(id); err != nil {
			failed = append(failed, err.Error())
		}
	}
	if len(failed) > 0 {
		return strings.Join(failed, "\n")
	}
	return "OK"
}

func (b *Bot) approve(payload string) string {
	return b.moderate(payload, b.queue.Approve)
}

func (b *Bot) reject(payload string) string {
	return b.moderate(payload, b.queue.Reject)
}

func (b *Bot) listLayers(string) string {
	layers := b.app.Manager().Layers()
	if len(layers) == 0 {
		return "No layers"
	}

	lines := make([]string, 0, len(layers))
	for _, info := range layers {
		line := fmt.Sprintf("%s [%s] %s at %d,%d",
			info.ID, info.Kind, lo.Ternary(info.Visible, "on", "off"), info.X, info.Y)
		if info.Text != "" {
			line += fmt.Sprintf(" %q", info.Text)
		}
		if info.Failures > 0 {
			line += fmt.Sprintf(" failures=%d", info.Failures)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) visible(id string, on bool) string {
	if err := b.app.Manager().SetVisible(strings.TrimSpace(id), on); err != nil {
		return fmt.Sprintf("change failed: %s", err)
	}
	return "OK"
}

func (b *Bot) timer(payload string) string {
	args := strings.Fields(payload)
	if len(args) != 2 {
		return "Usage: /timer <id> start|stop|reset"
	}

	var fn func(t *layer.Timer)
	switch args[1] {
	case "start":
		fn = (*layer.Timer).Start
	case "stop":
		fn = (*layer.Timer).Stop
	case "reset":
		fn = (*layer.Timer).Reset
	default:
		return fmt.Sprintf("unknown action %s", args[1])
	}

	if err := b.app.Manager().TimerControl(args[0], fn); err != nil {
		return fmt.Sprintf("timer failed: %s", err)
	}
	return "OK"
}

func (b *Bot) reload(string) string {
	if err := b.app.Reload(); err != nil {
		return fmt.Sprintf("reload: %s", err)
	}
	return "OK"
}

func (b *Bot) play(string) string {
	if err := b.app.Player().Play(); err != nil {
		return fmt.Sprintf("play failed: %s", err)
	}
	return "OK"
}

func (b *Bot) pause(string) string {
	b.app.Player().Pause()
	return "OK"
}

func (b *Bot) Start() {
	b.handleQueue()
	b.handleLayers()
	b.handlePlayback()
	go b.b.Start()
}

func (b *Bot) Stop() {
	go b.b.Stop()
}
