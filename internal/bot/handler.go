package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/usecase"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

// Analyzer produces a report for one repository.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, ref domain.RepositoryRef, progress usecase.ProgressFunc) (*domain.Report, error)
}

// Responder answers one slash command interaction.
type Responder interface {
	// Reject answers immediately with a message only the caller sees.
	Reject(content string) error
	// Defer acknowledges the interaction; later answers go through Edit.
	Defer() error
	// Edit replaces the deferred answer. A nil embed clears any embed.
	Edit(content string, embed *discordgo.MessageEmbed) error
}

var progressText = map[string]string{
	usecase.LabelClosedIssues: "🔍 Fetched closed issues",
	usecase.LabelOpenPRs:      "📊 Fetched open PRs",
	usecase.LabelClosedPRs:    "📈 Fetched closed PRs",
	usecase.LabelCommits:      "✨ Fetched commits",
	usecase.LabelLanguages:    "💻 Fetched languages",
	usecase.LabelReadme:       "📖 Fetched README",
}

const (
	startText     = "🔍 Fetching repository activity..."
	narrativeText = "🧠 Claude is analyzing the repo..."
)

// ProgressMessage is the text shown while an analysis runs.
func ProgressMessage(p usecase.Progress) string {
	if p.Label == usecase.LabelNarrative {
		return narrativeText
	}
	text, ok := progressText[p.Label]
	if !ok {
		text = "🔍 Fetched " + p.Label
	}
	return fmt.Sprintf("%s (%d/%d)", text, p.Completed, p.Total)
}

// Handler runs the analyze command against an Analyzer.
type Handler struct {
	analyzer Analyzer
	logger   *log.Logger
}

func NewHandler(analyzer Analyzer, logger *log.Logger) *Handler {
	return &Handler{analyzer: analyzer, logger: logger}
}

// HandleAnalyze validates rawURL, then runs the analysis and keeps the deferred
// answer updated. Once ctx is done no further edits are made.
func (h *Handler) HandleAnalyze(ctx context.Context, rawURL string, r Responder) {
	ref, err := domain.ParseRepositoryURL(rawURL)
	if err != nil {
		h.logger.Printf("Bot: rejected %q: %v", rawURL, err)
		if err := r.Reject(apperrors.UserMessage(err)); err != nil {
			h.logger.Printf("Bot: failed to reject interaction: %v", err)
		}
		return
	}

	if err := r.Defer(); err != nil {
		h.logger.Printf("Bot: failed to defer interaction for %s: %v", ref.FullName(), err)
		return
	}
	h.edit(ctx, r, startText, nil)

	report, err := h.analyzer.AnalyzeRepository(ctx, ref, func(p usecase.Progress) {
		h.edit(ctx, r, ProgressMessage(p), nil)
	})
	if err != nil {
		h.logger.Printf("Bot: analysis of %s failed: %v", ref.FullName(), err)
		h.edit(ctx, r, apperrors.UserMessage(err), nil)
		return
	}

	h.edit(ctx, r, "", BuildEmbed(report))
}

func (h *Handler) edit(ctx context.Context, r Responder, content string, embed *discordgo.MessageEmbed) {
	if ctx.Err() != nil {
		return
	}
	if err := r.Edit(content, embed); err != nil {
		h.logger.Printf("Bot: failed to update interaction: %v", err)
	}
}

// interactionResponder answers through the Discord API.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (ir *interactionResponder) Reject(content string) error {
	return ir.session.InteractionRespond(ir.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (ir *interactionResponder) Defer() error {
	return ir.session.InteractionRespond(ir.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (ir *interactionResponder) Edit(content string, embed *discordgo.MessageEmbed) error {
	embeds := []*discordgo.MessageEmbed{}
	if embed != nil {
		embeds = append(embeds, embed)
	}
	_, err := ir.session.InteractionResponseEdit(ir.interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	})
	return err
}
