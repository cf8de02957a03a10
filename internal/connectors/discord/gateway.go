package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// Intents are the gateway intents the bot identifies with.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

// Gateway indexes messages as they are posted.
type Gateway struct {
	session *discordgo.Session
	indexer driving.IndexService

	// OnReady, if set, is called with the bot's username once the
	// session is established.
	OnReady func(username string)

	mu  sync.RWMutex
	ctx context.Context
}

// NewGateway creates a bot session for the token. The "Bot " prefix is
// added unless the token already has it.
func NewGateway(token string, indexer driving.IndexService) (*Gateway, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	if indexer == nil {
		return nil, fmt.Errorf("gateway: %w", domain.ErrNotConfigured)
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = Intents

	return &Gateway{
		session: session,
		indexer: indexer,
		ctx:     context.Background(),
	}, nil
}

// Session returns the underlying session, e.g. to read history with.
func (g *Gateway) Session() *discordgo.Session {
	return g.session
}

// Run opens the gateway connection and indexes new messages until ctx
// is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	g.mu.Lock()
	g.ctx = ctx
	g.mu.Unlock()

	removeReady := g.session.AddHandler(g.onReady)
	defer removeReady()
	removeCreate := g.session.AddHandler(g.onMessageCreate)
	defer removeCreate()

	if err := g.session.Open(); err != nil {
		if IsUnauthorized(err) {
			return fmt.Errorf("open gateway: bot token rejected: %w", err)
		}
		return fmt.Errorf("open gateway: %w", err)
	}

	<-ctx.Done()

	stats := g.indexer.Stats()
	logger.Info("Indexed %d messages (%d skipped, %d failed)", stats.Indexed, stats.Skipped, stats.Failed)

	if err := g.session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	return nil
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	username := ""
	if r != nil && r.User != nil {
		username = r.User.Username
	}
	logger.Info("Logged in as %s", username)
	if g.OnReady != nil {
		g.OnReady(username)
	}
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}

	g.mu.RLock()
	ctx := g.ctx
	g.mu.RUnlock()

	raw, err := ToRawMessage(m.Message)
	if err != nil {
		g.indexer.Skip(err)
		return
	}
	if err := g.indexer.IndexMessage(ctx, raw); err != nil {
		logger.Error("indexing message %s: %v", m.ID, err)
	}
}
