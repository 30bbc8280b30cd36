package discordbot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/roaziy/gdg-news-bot/internal/dispatch"
	"github.com/roaziy/gdg-news-bot/internal/domain"
)

const (
	gdgIconURL = "https://res.cloudinary.com/startup-grind/image/upload/c_fill,dpr_2.0,f_auto,g_center,h_1080,q_100,w_1080/v1/gcs/platform-data-goog/events/google-developers-group-gdg-icon_0.png"

	colorBlue   = 0x4285f4
	colorGreen  = 0x51cf66
	colorRed    = 0xff6b6b
	colorOrange = 0xffa500
)

func gdgFooter() *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{
		Text:    "🚀 Технологийн мэдээ • GDG Ulaanbaatar • Mongolia",
		IconURL: gdgIconURL,
	}
}

// newsEmbed renders one translated article as a rich message.
func newsEmbed(msg domain.Message) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		URL:         msg.Link,
		Color:       colorBlue,
		Timestamp:   msg.Published.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name: msg.SourceName + " • Tech News",
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📰 Анхны гарчиг", Value: "```" + msg.OriginalTitle + "```", Inline: false},
			{Name: "📅 Огноо", Value: msg.Published.Format("2006-01-02 15:04"), Inline: true},
			{Name: "🔗 Эх сурвалж", Value: msg.SourceName, Inline: true},
		},
		Footer: gdgFooter(),
	}
}

// newsPlainText is the fallback rendering for channels without embed rights.
func newsPlainText(msg domain.Message) string {
	return fmt.Sprintf("**%s**\n%s\n🔗 %s\n📅 %s",
		msg.Title, msg.Description, msg.Link, msg.Published.Format("2006-01-02 15:04"))
}

func loadingEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔍 Шинэ мэдээ хайж байна...",
		Description: "Хамгийн сүүлийн технологийн мэдээг авч байна",
		Color:       colorOrange,
	}
}

func noNewsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📰 Мэдээ олдсонгүй",
		Description: "Одоогоор шинэ мэдээ байхгүй байна. Дахин оролдоно уу.",
		Color:       colorRed,
		Footer:      gdgFooter(),
	}
}

func busyEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏳ Түр хүлээнэ үү",
		Description: "Бот одоо өөр мэдээ илгээж байна. Түр хүлээгээд дахин оролдоно уу.",
		Color:       colorOrange,
	}
}

func errorEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Алдаа гарлаа",
		Description: "Мэдээ татахад алдаа гарлаа. Дахин оролдоно уу.",
		Color:       colorRed,
		Footer:      gdgFooter(),
	}
}

func successEmbed(count int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Амжилттай",
		Description: fmt.Sprintf("%d шинэ мэдээ олдлоо!", count),
		Color:       colorGreen,
	}
}

func successText(count int) string {
	return fmt.Sprintf("✅ %d шинэ мэдээ олдлоо!", count)
}

func statusEmbed(status dispatch.Status, guilds int) *discordgo.MessageEmbed {
	lastCheck, nextCheck := statusTimes(status)

	channels := make([]string, 0, len(status.Channels))
	for _, id := range status.Channels {
		channels = append(channels, "<#"+id+">")
	}

	filter := "Disabled"
	if status.StrictFilter {
		filter = "Enabled"
	}

	return &discordgo.MessageEmbed{
		Title:       "🤖 GDG News Bot статус",
		Description: "Технологийн мэдээний ботын одоогийн байдал",
		Color:       colorBlue,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⏰ Сүүлийн шалгалт", Value: "```" + lastCheck + "```", Inline: true},
			{Name: "⏭️ Дараагийн шалгалт", Value: "```" + nextCheck + "```", Inline: true},
			{Name: "📺 Сувгууд", Value: strings.Join(channels, "\n"), Inline: true},
			{Name: "📊 Серверүүд", Value: fmt.Sprintf("```%d сервер```", guilds), Inline: true},
			{Name: "🌐 Эх сурвалж", Value: "```" + strings.Join(status.Sources, ", ") + "```", Inline: true},
			{Name: "🔍 Tech Filter", Value: "```" + filter + "```", Inline: true},
		},
		Footer: gdgFooter(),
	}
}

func statusText(status dispatch.Status) string {
	lastCheck, nextCheck := statusTimes(status)
	return fmt.Sprintf("🤖 GDG News Bot статус\nСүүлийн шалгалт: %s\nДараагийн шалгалт: %s\nЭх сурвалж: %s",
		lastCheck, nextCheck, strings.Join(status.Sources, ", "))
}

func statusTimes(status dispatch.Status) (string, string) {
	if !status.EverChecked {
		return "Хэзээ ч", "Удахгүй"
	}
	return status.LastCheck.UTC().Format("2006-01-02 15:04:05 UTC"),
		status.NextCheck.UTC().Format("2006-01-02 15:04:05 UTC")
}

func infoEmbed(status dispatch.Status) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ℹ️ GDG Ulaanbaatar News Bot тусламж",
		Description: "🤖 Технологийн мэдээний бот • Гадаад эх сурвалжаас мэдээ авч орчуулдаг",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "⚡ Командууд",
				Value: "🔍 `!news` - Шинэ мэдээ татах (админ)\n" +
					"📊 `!status` - Ботын статус шалгах\n" +
					"ℹ️ `!info` - Энэ тусламжийг харах\n" +
					"🔐 `!checkperms` - Зөвшөөрөл шалгах",
				Inline: false,
			},
			{
				Name:   "💬 Ментион",
				Value:  "```@GDG UB BOT шинэ мэдээ юу байна?```\nШинэ мэдээ харахын тулд ботыг дуудаарай",
				Inline: false,
			},
			{
				Name:   "🌍 Орчуулга",
				Value:  "```Англи ➜ Монгол```\nМэдээг монгол хэл рүү орчуулна",
				Inline: true,
			},
			{
				Name:   "📰 Эх сурвалж",
				Value:  "```" + strings.Join(status.Sources, ", ") + "```",
				Inline: true,
			},
		},
		Footer: gdgFooter(),
	}
}

func permissionsEmbed(channelID string, checks []permCheck) *discordgo.MessageEmbed {
	var lines strings.Builder
	allGood := true
	for _, check := range checks {
		mark := "✅"
		if !check.granted {
			mark = "❌"
			allGood = false
		}
		fmt.Fprintf(&lines, "%s %s\n", mark, check.label)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔐 Зөвшөөрлийн шалгалт",
		Description: "📺 <#" + channelID + "> каналын зөвшөөрлүүд:",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📋 Зөвшөөрлүүд", Value: lines.String(), Inline: false},
		},
	}

	if allGood {
		embed.Color = colorGreen
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "✅ Нийт төлөв", Value: "Бүх зөвшөөрөл байна! Бот хэвийн ажиллана.",
		})
	} else {
		embed.Color = colorOrange
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "⚠️ Нийт төлөв", Value: "Зарим зөвшөөрөл дутуу байна. Админтайгаа холбогдоно уу.",
		})
	}
	return embed
}

type generalReply struct {
	title       string
	description string
	color       int
}

func (r generalReply) embed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       r.title,
		Description: r.description,
		Color:       r.color,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: gdgIconURL},
		Footer:      gdgFooter(),
	}
}

func (r generalReply) plain() string {
	return r.title + "\n" + r.description
}

var generalReplies = []generalReply{
	{"👋 Сайн байна уу!", "Би GDG Ulaanbaatar-ын технологийн мэдээний бот байна.", colorBlue},
	{"🤖 Технологийн мэдээ", "Шинэ мэдээ авахыг хүсвэл **'шинэ мэдээ'** гэж бичээрэй.", colorGreen},
	{"ℹ️ Тусламж", "Дэлгэрэнгүй мэдээлэл авахыг хүсвэл **`!info`** командыг ашиглана уу.", colorBlue},
}

func pickGeneralReply() generalReply {
	return generalReplies[rand.Intn(len(generalReplies))]
}
