// Package bot serves the /analyze slash command on Discord.
package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// InteractionTimeout bounds one analyze command, matching the lifetime of a
// Discord interaction token.
const InteractionTimeout = 15 * time.Minute

const (
	commandName = "analyze"
	urlOption   = "url"
	presence    = "GitHub repos with Claude AI 👁️"
)

// analyzeCommand is the slash command registered on startup.
func analyzeCommand() *discordgo.ApplicationCommand {
	dmPermission := false
	return &discordgo.ApplicationCommand{
		Name:         commandName,
		Description:  "🤖 GitClawd · AI-powered GitHub Repo Analyzer",
		DMPermission: &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        urlOption,
				Description: "GitHub repository URL, e.g. https://github.com/owner/repo",
				Required:    true,
			},
		},
	}
}

// Bot connects a Handler to a Discord session.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
	logger  *log.Logger
}

// New creates a bot for token. An empty guildID registers the command globally.
func New(token, guildID string, analyzer Analyzer, logger *log.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		session: session,
		handler: NewHandler(analyzer, logger),
		guildID: guildID,
		logger:  logger,
	}, nil
}

// Run connects, registers the command and serves interactions until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Printf("Bot: logged in as %s", r.User.String())
		if err := s.UpdateWatchStatus(0, presence); err != nil {
			b.logger.Printf("Bot: failed to set presence: %v", err)
		}
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(ctx, s, i)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.session.Close()

	cmd, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, analyzeCommand())
	if err != nil {
		return fmt.Errorf("failed to register /%s: %w", commandName, err)
	}
	b.logger.Printf("Bot: registered /%s (id %s)", cmd.Name, cmd.ID)

	<-ctx.Done()
	b.logger.Println("Bot: shutting down...")
	return nil
}

func (b *Bot) onInteraction(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	var rawURL string
	for _, opt := range data.Options {
		if opt.Name == urlOption {
			rawURL = opt.StringValue()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, InteractionTimeout)
	defer cancel()
	b.handler.HandleAnalyze(ctx, rawURL, &interactionResponder{session: s, interaction: i.Interaction})
}
