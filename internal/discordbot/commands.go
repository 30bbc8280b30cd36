package discordbot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/roaziy/gdg-news-bot/internal/dispatch"
)

func (b *Bot) handleCommand(m *discordgo.MessageCreate) {
	fields := strings.Fields(m.Content)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "!news":
		b.commandNews(m)
	case "!status":
		b.commandStatus(m)
	case "!info":
		b.commandInfo(m)
	case "!checkperms", "!permissions":
		b.commandCheckPerms(m)
	}
}

// commandNews manually triggers a full delivery run. Privileged: the caller
// needs Manage Messages in the channel.
func (b *Bot) commandNews(m *discordgo.MessageCreate) {
	perms, err := b.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageMessages == 0 {
		b.plainSend(m.ChannelID, "Энэ командыг ашиглах эрх танд байхгүй байна.")
		return
	}

	b.plainSend(m.ChannelID, "Шинэ мэдээ татаж байна...")
	go func() {
		if err := b.dispatcher.RunScheduled(b.ctx); err != nil {
			if errors.Is(err, dispatch.ErrBusy) {
				b.plainSend(m.ChannelID, "⏳ Мэдээ шинэчлэлт аль хэдийн явагдаж байна.")
				return
			}
			b.logger.Error("manual run failed", "error", err)
			b.plainSend(m.ChannelID, "❌ Мэдээ татахад алдаа гарлаа.")
			return
		}
		b.plainSend(m.ChannelID, "Мэдээ шинэчлэлт дууслаа.")
	}()
}

func (b *Bot) commandStatus(m *discordgo.MessageCreate) {
	status := b.dispatcher.Status()
	guilds := len(b.session.State.Guilds)

	if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, statusEmbed(status, guilds)); err != nil {
		b.plainSend(m.ChannelID, statusText(status))
	}
}

func (b *Bot) commandInfo(m *discordgo.MessageCreate) {
	if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, infoEmbed(b.dispatcher.Status())); err != nil {
		b.plainSend(m.ChannelID, "ℹ️ GDG Ulaanbaatar News Bot — технологийн мэдээг монголоор хүргэдэг бот. Командууд: !news, !status, !info, !checkperms")
	}
}

// commandCheckPerms audits the bot's own permissions in the current channel.
func (b *Bot) commandCheckPerms(m *discordgo.MessageCreate) {
	if m.GuildID == "" {
		b.plainSend(m.ChannelID, "❌ Энэ команд зөвхөн серверт ажиллана.")
		return
	}

	perms, err := b.session.UserChannelPermissions(b.session.State.User.ID, m.ChannelID)
	if err != nil {
		b.logger.Error("cannot resolve own permissions", "channel", m.ChannelID, "error", err)
		b.plainSend(m.ChannelID, "❌ Зөвшөөрлийн мэдээлэл олдсонгүй.")
		return
	}

	checks := []permCheck{
		{"Мессеж илгээх", perms&discordgo.PermissionSendMessages != 0},
		{"Embed линк хийх", perms&discordgo.PermissionEmbedLinks != 0},
		{"Файл хавсаргах", perms&discordgo.PermissionAttachFiles != 0},
		{"Мессежийн түүх унших", perms&discordgo.PermissionReadMessageHistory != 0},
		{"Reaction нэмэх", perms&discordgo.PermissionAddReactions != 0},
	}

	if _, err := b.session.ChannelMessageSendEmbed(m.ChannelID, permissionsEmbed(m.ChannelID, checks)); err != nil {
		b.plainSend(m.ChannelID, permissionsText(checks))
	}
}

type permCheck struct {
	label   string
	granted bool
}

func permissionsText(checks []permCheck) string {
	var sb strings.Builder
	sb.WriteString("🔐 Зөвшөөрлийн шалгалт\n")
	allGood := true
	for _, check := range checks {
		mark := "✅"
		if !check.granted {
			mark = "❌"
			allGood = false
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, check.label)
	}
	if allGood {
		sb.WriteString("\n✅ Бүх зөвшөөрөл байна!")
	} else {
		sb.WriteString("\n⚠️ Зарим зөвшөөрөл дутуу байна.")
	}
	return sb.String()
}
