package discordbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/roaziy/gdg-news-bot/internal/domain"
	"github.com/roaziy/gdg-news-bot/internal/ports"
)

var _ ports.Messenger = (*Bot)(nil)

// ChannelCapabilities reports what the bot is allowed to do in a channel,
// based on the gateway-resolved permission set for the bot user.
func (b *Bot) ChannelCapabilities(channelID string) (domain.Capabilities, error) {
	if b.session.State == nil || b.session.State.User == nil {
		return domain.Capabilities{}, errors.New("discord: session state not ready")
	}
	perms, err := b.session.UserChannelPermissions(b.session.State.User.ID, channelID)
	if err != nil {
		return domain.Capabilities{}, fmt.Errorf("discord: resolve permissions for channel %s: %w", channelID, mapRESTError(err))
	}
	return domain.Capabilities{
		CanSendMessages: perms&discordgo.PermissionSendMessages != 0,
		CanEmbedLinks:   perms&discordgo.PermissionEmbedLinks != 0,
	}, nil
}

// SendNews delivers a single article to a channel, as an embed when the
// channel allows it and as formatted text otherwise.
func (b *Bot) SendNews(ctx context.Context, channelID string, msg domain.Message, rich bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	if rich {
		_, err = b.session.ChannelMessageSendEmbed(channelID, newsEmbed(msg))
	} else {
		_, err = b.session.ChannelMessageSend(channelID, newsPlainText(msg))
	}
	if err != nil {
		return fmt.Errorf("discord: send to channel %s: %w", channelID, mapRESTError(err))
	}
	return nil
}

// mapRESTError folds discord REST failures into domain sentinels so the
// delivery pipeline can tell a revoked channel from a transient fault.
func mapRESTError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", domain.ErrForbidden, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
	}
	return err
}
