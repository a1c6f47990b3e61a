package handler

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"rent_radar/internal/domain"
	"rent_radar/internal/transport/bot/view"
	"rent_radar/pkg/errcodes"
	"rent_radar/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	text := view.Status(
		h.scheduler.IsRunning(),
		h.scheduler.NextRun(time.Now()),
		h.scheduler.LastRun(),
		h.scheduler.GetProfiles(),
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnProfiles(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Profiles(h.svc.Profiles(), h.scheduler.GetProfiles()))
}

func (h *Handler) OnRun(ctx *th.Context, msg telego.Message) error {
	name, ok := profileArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.MissingProfile, "/run"))
	}

	if _, err := h.svc.Profile(name); err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.UnknownProfile, html.EscapeString(name)))
	}

	if err := h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RunStarted, html.EscapeString(name))); err != nil {
		return err
	}

	batch, err := h.svc.Run(ctx, name)
	if err != nil {
		logger(ctx).Error("manual run failed", "profile", name, logx.FieldError, err)
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RunFailed, html.EscapeString(err.Error())))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Top(batch))
}

func (h *Handler) OnTop(ctx *th.Context, msg telego.Message) error {
	name, ok := profileArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.MissingProfile, "/top"))
	}

	batch, err := h.svc.Latest(ctx, name)
	if err == nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Top(batch))
	}

	code, _ := domain.GetCode(err)

	switch code {
	case errcodes.ProfileNotFound:
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.UnknownProfile, html.EscapeString(name)))
	case errcodes.DigestNotFound:
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.NoBatchYet, html.EscapeString(name)))
	default:
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RunFailed, html.EscapeString(err.Error())))
	}
}

func (h *Handler) OnDigest(ctx *th.Context, msg telego.Message) error {
	if err := h.sendHTML(ctx, msg.Chat.ID, view.DigestStarted); err != nil {
		return err
	}

	d, err := h.scheduler.RunOnce(ctx)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.RunFailed, html.EscapeString(err.Error())))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.DigestSent, html.EscapeString(d.Subject)))
}

func (h *Handler) OnPause(ctx *th.Context, msg telego.Message) error {
	if !h.scheduler.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.AlreadyPaused)
	}

	h.scheduler.Stop()

	return h.sendHTML(ctx, msg.Chat.ID, view.Paused)
}

func (h *Handler) OnResume(ctx *th.Context, msg telego.Message) error {
	if h.scheduler.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.AlreadyRunning)
	}

	if err := h.scheduler.Start(h.baseCtx); err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf("Ошибка запуска расписания: %v", err))
	}

	next := h.scheduler.NextRun(time.Now()).Format("02.01 15:04 MST")

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.Resumed, next))
}

func (h *Handler) OnWatch(ctx *th.Context, msg telego.Message) error {
	name, ok := profileArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.MissingProfile, "/watch"))
	}

	if _, err := h.svc.Profile(name); err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.UnknownProfile, html.EscapeString(name)))
	}

	h.scheduler.AddProfile(name)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ProfileWatched, html.EscapeString(name)))
}

func (h *Handler) OnUnwatch(ctx *th.Context, msg telego.Message) error {
	name, ok := profileArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.MissingProfile, "/unwatch"))
	}

	if !h.scheduler.HasProfile(name) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ProfileNotInList, html.EscapeString(name)))
	}

	h.scheduler.RemoveProfile(name)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.ProfileUnwatched, html.EscapeString(name)))
}

func (h *Handler) OnClearWatch(ctx *th.Context, msg telego.Message) error {
	h.scheduler.ClearProfiles()

	return h.sendHTML(ctx, msg.Chat.ID, "🗑 Выборка очищена, в дайджест попадут все профили")
}

// profileArg достаёт первый аргумент команды
func profileArg(text string) (string, bool) {
	args := strings.Fields(text)
	if len(args) < 2 {
		return "", false
	}

	return args[1], true
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}
