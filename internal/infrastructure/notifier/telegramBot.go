package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"rent_radar/internal/digest"
	"rent_radar/pkg/logx"
)

// Лимит Telegram — 4096 символов, оставляем запас.
const maxMessageRunes = 4000

type TelegramBot struct {
	bot     *telego.Bot
	chatIDs []int64
}

func NewTelegramBot(bot *telego.Bot, chatIDs []int64) *TelegramBot {
	return &TelegramBot{
		bot:     bot,
		chatIDs: chatIDs,
	}
}

// Notify sends the text digest to every configured chat.
func (b *TelegramBot) Notify(ctx context.Context, d digest.Digest) error {
	var failed int

	for _, chatID := range b.chatIDs {
		if err := b.SendDigest(ctx, chatID, d); err != nil {
			logger(ctx).Error("failed to send digest", logx.FieldChatID, chatID, logx.FieldError, err)
			failed++
		}
	}

	if failed > 0 && failed == len(b.chatIDs) {
		return fmt.Errorf("digest was not delivered to any of %d chats", failed)
	}

	return nil
}

func (b *TelegramBot) SendDigest(ctx context.Context, chatID int64, d digest.Digest) error {
	for _, chunk := range SplitMessage(d.Text, maxMessageRunes) {
		if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), chunk)); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err
}

// SplitMessage cuts text on line boundaries into chunks of at most limit
// runes. A single longer line is cut hard.
func SplitMessage(text string, limit int) []string {
	var (
		chunks []string
		sb     strings.Builder
		size   int
	)

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(sb.String(), "\n"))
			sb.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)

		if size+n > limit {
			flush()
		}

		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}

		sb.WriteString(line)
		size += n
	}

	flush()

	return chunks
}
