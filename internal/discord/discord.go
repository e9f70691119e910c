// Package discord defines the chat gateway consumed by the game engine. The
// engine only ever speaks in embeds; rendering and transport live in
// external/discord.
package discord

import "context"

// EmbedField is one titled section of an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is the presentation unit the engine emits: a title, a description and
// optional fields and images. How it is rendered is the transport's business.
type Embed struct {
	Title       string
	Description string
	Fields      []EmbedField
	Image       string
	Thumbnail   string
}

// SlashCommandOption is one argument definition for a slash command.
type SlashCommandOption struct {
	Name        string
	Description string
	Type        string // "int", "bool" or "string"
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

// SlashCommandEvent is a parsed slash-command invocation.
type SlashCommandEvent struct {
	GuildID          int64
	ChannelID        int64
	UserID           int64
	UserName         string
	CommandName      string
	Options          map[string]string
	RespondEphemeral func(content string) error
}

// MessageEvent is an inbound channel message, routed to active sessions as a
// potential answer.
type MessageEvent struct {
	GuildID    int64
	ChannelID  int64
	AuthorID   int64
	AuthorName string
	AuthorBot  bool
	Content    string
}

// Client is the chat gateway.
type Client interface {
	Connect(ctx context.Context) error
	Close() error
	Run() error

	SendEmbed(channelID int64, embed Embed) error

	RegisterMessageHandler(handler func(MessageEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertSlashCommands(defs []SlashCommandDefinition) error
}
