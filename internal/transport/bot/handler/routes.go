package handler

import (
	"rent_radar/internal/transport/bot/middleware"

	th "github.com/mymmrac/telego/telegohandler"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminIDs ...int64) {
	// Все команды только для админов
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminIDs...))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnProfiles, th.CommandEqual("profiles"))

	// Прогоны
	adminGroup.HandleMessage(h.OnRun, th.CommandEqual("run"))
	adminGroup.HandleMessage(h.OnTop, th.CommandEqual("top"))
	adminGroup.HandleMessage(h.OnDigest, th.CommandEqual("digest"))

	// Расписание
	adminGroup.HandleMessage(h.OnPause, th.CommandEqual("pause"))
	adminGroup.HandleMessage(h.OnResume, th.CommandEqual("resume"))

	// Выборка профилей
	adminGroup.HandleMessage(h.OnWatch, th.CommandEqual("watch"))
	adminGroup.HandleMessage(h.OnUnwatch, th.CommandEqual("unwatch"))
	adminGroup.HandleMessage(h.OnClearWatch, th.CommandEqual("clearwatch"))
}
