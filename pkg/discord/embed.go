package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

// AccountEmbed describes a freshly provisioned account.
type AccountEmbed struct {
	Title       string
	Description string
	Email       string
	FullName    string
	Superuser   bool
	CreatedAt   time.Time
	// Location is the zone the footer is shown in; nil means UTC.
	Location *time.Location
}

// BuildAccountCreatedEmbed renders the "account created" notice. Empty
// optional fields are left out.
func BuildAccountCreatedEmbed(a AccountEmbed) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Email", Value: a.Email, Inline: true},
	}
	if name := strings.TrimSpace(a.FullName); name != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Name", Value: name, Inline: true})
	}
	if a.Superuser {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Role", Value: "superuser", Inline: true})
	}
	embed := &discordgo.MessageEmbed{
		Title:       a.Title,
		Description: a.Description,
		Color:       embedColor,
		Fields:      fields,
	}
	if !a.CreatedAt.IsZero() {
		embed.Timestamp = a.CreatedAt.UTC().Format(time.RFC3339)
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Created %s", FormatDateTime(a.CreatedAt, a.Location))}
	}
	return embed
}
