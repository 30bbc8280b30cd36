// Package discordbot is the chat-platform adapter: a thin layer over
// discordgo that forwards commands and mentions into the dispatcher and
// implements the delivery pipeline's Messenger port. Business logic lives
// behind the dispatcher, not in the handlers.
package discordbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/roaziy/gdg-news-bot/internal/dispatch"
)

// mentionKeywords trigger the news-request path when the bot is mentioned.
// Mongolian greetings plus the obvious English phrases.
var mentionKeywords = []string{
	"шинэ мэдээ", "мэдээ", "юу байна", "сонин",
	"tech news", "news", "мэдээлэл",
}

const commandPrefix = "!"

// Bot owns the Discord session and the event handlers.
type Bot struct {
	session    *discordgo.Session
	dispatcher *dispatch.Dispatcher
	debouncer  *dispatch.Debouncer
	logger     *slog.Logger

	ctx       context.Context
	connected atomic.Bool
}

// New creates the bot without opening the gateway connection. The
// dispatcher is attached separately because it is built on top of the
// bot's own delivery surface.
func New(token string, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session:   session,
		debouncer: dispatch.NewDebouncer(),
		logger:    logger,
	}
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onMessageCreate)
	return bot, nil
}

// SetDispatcher must be called before Start.
func (b *Bot) SetDispatcher(d *dispatch.Dispatcher) {
	b.dispatcher = d
}

// Start opens the gateway connection. ctx bounds all handler work.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	return b.session.Open()
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	b.connected.Store(false)
	return b.session.Close()
}

// Connected reports gateway state for the health endpoint.
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	b.logger.Info("connected to Discord", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	if strings.HasPrefix(m.Content, commandPrefix) {
		b.handleCommand(m)
		return
	}

	if b.isMentioned(m) {
		content := strings.ToLower(m.Content)
		if containsAnyKeyword(content, mentionKeywords) {
			// Gateway events can arrive twice; the debouncer keeps a rapid
			// duplicate from double-posting.
			if !b.debouncer.ShouldProcess(m.Author.ID + ":" + m.ChannelID) {
				b.logger.Debug("debounced duplicate news request", "author", m.Author.ID)
				return
			}
			go b.handleNewsRequest(m)
			return
		}
		b.handleGeneralMention(m)
	}
}

func (b *Bot) isMentioned(m *discordgo.MessageCreate) bool {
	for _, user := range m.Mentions {
		if user.ID == b.session.State.User.ID {
			return true
		}
	}
	return false
}

func containsAnyKeyword(content string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			return true
		}
	}
	return false
}

// handleNewsRequest drives the on-demand path: post a searching placeholder,
// aggregate a small batch, then replace the placeholder with results or an
// apology. Technical errors are logged, never shown to users.
func (b *Bot) handleNewsRequest(m *discordgo.MessageCreate) {
	ctx := b.ctx

	caps, err := b.ChannelCapabilities(m.ChannelID)
	if err != nil || !caps.CanSendMessages {
		b.logger.Error("cannot answer news request", "channel", m.ChannelID, "error", err)
		return
	}
	if !caps.CanEmbedLinks {
		b.plainSend(m.ChannelID, "Уучлаарай, энэ сувагт embed илгээх эрх надад байхгүй байна.")
		return
	}

	loading := b.sendLoadingPlaceholder(m)

	articles, err := b.dispatcher.Search(ctx)
	if err != nil {
		if errors.Is(err, dispatch.ErrBusy) {
			b.replacePlaceholder(m.ChannelID, loading, busyEmbed(),
				"⏳ Бот одоо завгүй байна. Түр хүлээгээд дахин оролдоно уу.")
			return
		}
		b.logger.Error("news request failed", "error", err)
		b.replacePlaceholder(m.ChannelID, loading, errorEmbed(),
			"❌ Мэдээ татахад алдаа гарлаа. Дахин оролдоно уу.")
		return
	}

	if len(articles) == 0 {
		b.replacePlaceholder(m.ChannelID, loading, noNewsEmbed(),
			"📰 Одоогоор шинэ мэдээ байхгүй байна.")
		return
	}

	b.deletePlaceholder(m.ChannelID, loading)
	b.sendEphemeralSuccess(m, len(articles))

	if _, err := b.dispatcher.DeliverAdHoc(ctx, articles, m.ChannelID); err != nil {
		b.logger.Error("ad hoc delivery failed", "channel", m.ChannelID, "error", err)
	}
}

// sendLoadingPlaceholder tries reply, then channel embed, then plain text;
// returns the placeholder message (nil when nothing could be posted).
func (b *Bot) sendLoadingPlaceholder(m *discordgo.MessageCreate) *discordgo.Message {
	embed := loadingEmbed()

	msg, err := b.session.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embed:     embed,
		Reference: m.Reference(),
	})
	if err == nil {
		return msg
	}

	msg, err = b.session.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err == nil {
		return msg
	}

	msg, err = b.session.ChannelMessageSend(m.ChannelID, "🔍 Шинэ мэдээ хайж байна...")
	if err != nil {
		b.logger.Error("cannot post loading placeholder", "channel", m.ChannelID, "error", err)
		return nil
	}
	return msg
}

// replacePlaceholder edits the loading message in place; stale or forbidden
// placeholders fall back to a fresh plain-text message.
func (b *Bot) replacePlaceholder(channelID string, placeholder *discordgo.Message, embed *discordgo.MessageEmbed, fallback string) {
	if placeholder != nil {
		if _, err := b.session.ChannelMessageEditEmbed(channelID, placeholder.ID, embed); err == nil {
			return
		}
	}
	b.plainSend(channelID, fallback)
}

func (b *Bot) deletePlaceholder(channelID string, placeholder *discordgo.Message) {
	if placeholder == nil {
		return
	}
	// Forbidden or already-deleted placeholders are fine to leave behind.
	if err := b.session.ChannelMessageDelete(channelID, placeholder.ID); err != nil {
		b.logger.Debug("cannot delete placeholder", "channel", channelID, "error", err)
	}
}

func (b *Bot) sendEphemeralSuccess(m *discordgo.MessageCreate, count int) {
	msg, err := b.session.ChannelMessageSendEmbed(m.ChannelID, successEmbed(count))
	if err != nil {
		b.plainSend(m.ChannelID, successText(count))
		return
	}
	time.AfterFunc(3*time.Second, func() {
		_ = b.session.ChannelMessageDelete(m.ChannelID, msg.ID)
	})
}

func (b *Bot) handleGeneralMention(m *discordgo.MessageCreate) {
	caps, err := b.ChannelCapabilities(m.ChannelID)
	if err != nil || !caps.CanSendMessages {
		return
	}

	reply := pickGeneralReply()
	if caps.CanEmbedLinks {
		if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, reply.embed()); err == nil {
			return
		}
	}
	b.plainSend(m.ChannelID, reply.plain())
}

func (b *Bot) plainSend(channelID, content string) {
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Error("cannot send message", "channel", channelID, "error", err)
	}
}
