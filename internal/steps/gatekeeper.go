// Package steps contains the pipeline steps that gate and resolve status events.
// Each step implements the pipeline.Step interface.
package steps

import (
	"strings"

	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// Gatekeeper drops events from bots and from repositories that are not enabled.
type Gatekeeper struct {
	log *zap.Logger
}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{
		log: loggerFrom(deps),
	}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run checks the sender and repository configuration.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	ev := ctx.Event
	s.log.Debug("gatekeeper: received event",
		zap.String("kind", string(ev.Kind)),
		zap.String("repo", ev.Org+"/"+ev.Repo),
		zap.Int("issue", ev.IssueNumber),
	)

	// The bot's own label changes would otherwise trigger it again.
	if ev.Sender != "" && isBotAuthor(ev.Sender, ctx.Config.BotUsers) {
		s.log.Info("gatekeeper: skipping event from bot", zap.String("sender", ev.Sender))
		return ctx.Skip("event triggered by bot")
	}

	if !ctx.Config.RepositoryEnabled(ev.Org, ev.Repo) {
		s.log.Info("gatekeeper: repository not enabled", zap.String("repo", ev.Org+"/"+ev.Repo))
		return ctx.Skip("repository not enabled")
	}

	return nil
}

// isBotAuthor returns true if the given username matches a known bot pattern
// or is in the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	if strings.HasSuffix(author, "[bot]") || strings.EqualFold(author, "carson-bot") {
		return true
	}
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}

func loggerFrom(deps *pipeline.Dependencies) *zap.Logger {
	if deps == nil || deps.Logger == nil {
		return zap.NewNop()
	}
	return deps.Logger
}
