// Package discord posts account notifications to a Discord channel webhook.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
	pkgdiscord "eventpoll/pkg/discord"
)

var _ output.Notifier = (*Notifier)(nil)

var errBadWebhookURL = errors.New("webhook url must look like https://discord.com/api/webhooks/<id>/<token>")

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier sends "account created" embeds through a webhook. Messages are
// rendered in locale through the translator.
type Notifier struct {
	exec      webhookExecutor
	webhookID string
	token     string
	tr        output.Translator
	locale    string
	loc       *time.Location
	logger    *slog.Logger
}

// NewNotifier parses a webhook URL. Timestamps in embeds are shown in loc.
func NewNotifier(webhookURL string, tr output.Translator, locale string, loc *time.Location, logger *slog.Logger) (*Notifier, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook execution is authenticated by the token in the URL; no bot token needed.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{exec: s, webhookID: id, token: token, tr: tr, locale: locale, loc: loc, logger: logger}, nil
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// api/webhooks/<id>/<token>, optionally prefixed by an API version segment.
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", errBadWebhookURL
}

func (n *Notifier) AccountCreated(ctx context.Context, user entities.User) error {
	data := map[string]any{"Email": user.Email}
	embed := pkgdiscord.BuildAccountCreatedEmbed(pkgdiscord.AccountEmbed{
		Title:       n.tr.T(n.locale, "account_created_title", nil),
		Description: n.tr.T(n.locale, "account_created_body", data),
		Email:       user.Email,
		FullName:    user.FullName,
		Superuser:   user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
		Location:    n.loc,
	})
	_, err := n.exec.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("execute webhook: %w", err)
	}
	n.logger.Debug("account notification sent", "user_id", user.ID)
	return nil
}
