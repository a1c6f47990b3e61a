package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"rent_radar/internal/transport/bot/handler"
	"rent_radar/pkg/contextx"
	"rent_radar/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой Telegram-бота
type Bot struct {
	bot      *telego.Bot
	handler  *handler.Handler
	adminIDs []int64
}

// New создает новый экземпляр бота поверх уже созданного клиента
func New(bot *telego.Bot, commandHandler *handler.Handler, adminIDs []int64) *Bot {
	return &Bot{
		bot:      bot,
		handler:  commandHandler,
		adminIDs: adminIDs,
	}
}

// Run получает обновления через long polling до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminIDs...)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", logx.FieldError, err)
		}
	}()

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.FieldError, err)
	}

	return nil
}
