package discord

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	discordpkg "github.com/hazelweave/quizbot/internal/discord"
)

var errNoApplicationID = errors.New("discord application id is not available")

type Client struct {
	session *discordgo.Session
	token   string
}

func NewClient(token string) *Client {
	return &Client{token: token}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent)
	return s.Open()
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// Run blocks until the session is closed. discordgo maintains its own
// reconnect loop, so there is nothing to pump here.
func (c *Client) Run() error {
	select {}
}

func (c *Client) SendEmbed(channelID int64, embed discordpkg.Embed) error {
	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Fields:      fields,
	}
	if embed.Image != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: embed.Image}
	}
	if embed.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.Thumbnail}
	}
	_, err := c.session.ChannelMessageSendEmbed(strconv.FormatInt(channelID, 10), out)
	return err
}

func parseSnowflake(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Author == nil {
			return
		}
		if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
			return
		}
		handler(discordpkg.MessageEvent{
			GuildID:    parseSnowflake(m.GuildID),
			ChannelID:  parseSnowflake(m.ChannelID),
			AuthorID:   parseSnowflake(m.Author.ID),
			AuthorName: m.Author.Username,
			AuthorBot:  m.Author.Bot,
			Content:    m.Content,
		})
	})
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := ""
		userName := ""
		if ic.Member != nil && ic.Member.User != nil {
			userID = ic.Member.User.ID
			userName = ic.Member.User.Username
		}
		if userID == "" && ic.User != nil {
			userID = ic.User.ID
			userName = ic.User.Username
		}
		if userID == "" {
			return
		}
		options := make(map[string]string, len(data.Options))
		for _, opt := range data.Options {
			if opt == nil {
				continue
			}
			switch opt.Type {
			case discordgo.ApplicationCommandOptionInteger:
				options[opt.Name] = strconv.FormatInt(opt.IntValue(), 10)
			case discordgo.ApplicationCommandOptionBoolean:
				options[opt.Name] = strconv.FormatBool(opt.BoolValue())
			default:
				options[opt.Name] = opt.StringValue()
			}
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", data.Name, "user_id", userID)
		handler(discordpkg.SlashCommandEvent{
			GuildID:     parseSnowflake(ic.GuildID),
			ChannelID:   parseSnowflake(ic.ChannelID),
			UserID:      parseSnowflake(userID),
			UserName:    userName,
			CommandName: data.Name,
			Options:     options,
			RespondEphemeral: func(content string) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: content,
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			},
		})
	})
}

func (c *Client) UpsertSlashCommands(defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return errNoApplicationID
	}
	existing, err := c.session.ApplicationCommands(appID, "")
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if def.Name == "" {
			continue
		}
		payload := &discordgo.ApplicationCommand{
			Name:        def.Name,
			Description: def.Description,
			Options:     commandOptions(def.Options),
		}
		if cmd, ok := existingByName[def.Name]; ok {
			if _, err := c.session.ApplicationCommandEdit(appID, "", cmd.ID, payload); err != nil {
				return err
			}
			continue
		}
		if _, err := c.session.ApplicationCommandCreate(appID, "", payload); err != nil {
			return err
		}
	}
	return nil
}

func commandOptions(opts []discordpkg.SlashCommandOption) []*discordgo.ApplicationCommandOption {
	out := make([]*discordgo.ApplicationCommandOption, 0, len(opts))
	for _, o := range opts {
		t := discordgo.ApplicationCommandOptionString
		switch o.Type {
		case "int":
			t = discordgo.ApplicationCommandOptionInteger
		case "bool":
			t = discordgo.ApplicationCommandOptionBoolean
		}
		out = append(out, &discordgo.ApplicationCommandOption{
			Name:        o.Name,
			Description: o.Description,
			Type:        t,
			Required:    o.Required,
		})
	}
	return out
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil || c.session.State.User == nil {
		return ""
	}
	return c.session.State.User.ID
}
