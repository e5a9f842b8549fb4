package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/desertthunder/faustok/internal/tasks"
	"github.com/desertthunder/faustok/internal/triage"
	"golang.org/x/sync/semaphore"
)

// Discord drops interactions that are not acknowledged within three seconds.
const ackTimeout = 3 * time.Second

// Intents are the gateway intents the bot needs to read message content.
const Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

// Session is the subset of the Discord REST API the bot calls.
type Session interface {
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Gateway is the event side of a Discord session.
type Gateway interface {
	AddHandler(handler any) func()
	Open() error
	Close() error
}

// Settings is the preference store used by triage and the autofix commands.
type Settings interface {
	Get(userID string) bool
	SetAndPersist(userID string, value bool) error
}

// Relayer runs one media relay.
type Relayer interface {
	Relay(ctx context.Context, kind models.MediaKind, req tasks.RelayRequest, progress chan<- tasks.ProgressUpdate) (*tasks.RelayResult, error)
}

// Opts contains the dependencies of a [Bot].
type Opts struct {
	Session        Session
	Settings       Settings
	Triage         *triage.Triage
	Relayer        Relayer
	Prefix         string
	Workers        int
	CommandTimeout time.Duration
	Logger         *log.Logger
}

// Bot handles gateway events.
type Bot struct {
	session  Session
	settings Settings
	triage   *triage.Triage
	relayer  Relayer
	prefix   string
	timeout  time.Duration
	logger   *log.Logger

	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
	ready    atomic.Bool
	username atomic.Value
}

// NewSession creates a discordgo session for a bot token with the required intents.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	return s, nil
}

// New creates a [Bot]. Prefix defaults to ".", workers to 16 and the command timeout to 2 minutes.
func New(opts Opts) (*Bot, error) {
	if opts.Session == nil || opts.Settings == nil || opts.Relayer == nil {
		return nil, fmt.Errorf("%w: bot requires a session, settings and relayer", shared.ErrInvalidConfig)
	}
	if opts.Prefix == "" {
		opts.Prefix = triage.DefaultPrefix
	}
	if opts.Triage == nil {
		t, err := triage.New("", opts.Prefix)
		if err != nil {
			return nil, err
		}
		opts.Triage = t
	}
	if opts.Workers < 1 {
		opts.Workers = 16
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Bot{
		session:  opts.Session,
		settings: opts.Settings,
		triage:   opts.Triage,
		relayer:  opts.Relayer,
		prefix:   opts.Prefix,
		timeout:  opts.CommandTimeout,
		logger:   opts.Logger,
		sem:      semaphore.NewWeighted(int64(opts.Workers)),
	}, nil
}

// Run registers the event handlers, opens the gateway and blocks until ctx is done.
// In-flight tasks are awaited before Run returns.
func (b *Bot) Run(ctx context.Context, gw Gateway) error {
	removers := []func(){
		gw.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			b.dispatch(ctx, "ready", func(ctx context.Context) { b.handleReady(ctx, r) })
		}),
		gw.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
			b.dispatch(ctx, "message", func(ctx context.Context) { b.handleMessage(ctx, m.Message) })
		}),
		gw.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			b.onInteraction(ctx, i.Interaction)
		}),
	}

	if err := gw.Open(); err != nil {
		for _, remove := range removers {
			remove()
		}
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	b.logger.Info("gateway connected, waiting for events")

	<-ctx.Done()

	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	b.ready.Store(false)
	err := gw.Close()
	b.Wait()

	b.logger.Info("gateway closed")
	return err
}

// dispatch runs fn as its own task once a pool slot is free. The task context
// expires after the command timeout.
func (b *Bot) dispatch(ctx context.Context, name string, fn func(ctx context.Context)) {
	if !b.track() {
		b.logger.Debug("task dropped after shutdown", "task", name)
		return
	}
	go func() {
		defer b.wg.Done()
		if err := b.sem.Acquire(ctx, 1); err != nil {
			b.logger.Debug("task dropped", "task", name, "error", err)
			return
		}
		defer b.sem.Release(1)

		taskCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("task panicked", "task", name, "panic", r)
			}
		}()
		fn(taskCtx)
	}()
}

// track registers a task with the wait group unless shutdown has begun.
func (b *Bot) track() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return false
	}
	b.wg.Add(1)
	return true
}

// Wait blocks until every dispatched task has finished.
func (b *Bot) Wait() { b.wg.Wait() }

// Ready reports whether the gateway session is ready.
func (b *Bot) Ready() bool { return b.ready.Load() }

// Username returns the bot user name once ready.
func (b *Bot) Username() string {
	name, _ := b.username.Load().(string)
	return name
}

func (b *Bot) handleReady(ctx context.Context, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		return
	}
	b.username.Store(r.User.Username)
	b.ready.Store(true)
	b.logger.Infof("Logged in as %s", r.User.Username)

	appID := r.User.ID
	if r.Application != nil && r.Application.ID != "" {
		appID = r.Application.ID
	}

	cmds, err := b.session.ApplicationCommandBulkOverwrite(appID, "", Commands(), discordgo.WithContext(ctx))
	if err != nil {
		b.logger.Error("failed to register commands", "error", err)
		return
	}
	b.logger.Info("registered commands", "count", len(cmds))
}

// handleMessage triages m and then runs its prefix command, if any.
func (b *Bot) handleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}

	if err := b.triageMessage(ctx, m); err != nil {
		b.logger.Error("triage failed", "user", m.Author.ID, "channel", m.ChannelID, "error", err)
	}

	inv, ok := b.parsePrefixCommand(m)
	if !ok {
		return
	}
	b.execute(ctx, inv)
}

func (b *Bot) triageMessage(ctx context.Context, m *discordgo.Message) error {
	decision := b.triage.Evaluate(m.Content, b.settings.Get(m.Author.ID))
	if decision.Action == models.ActionNone {
		return nil
	}

	b.logger.Debug("triage", "user", m.Author.ID, "action", decision.Action)

	_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      m.ID,
		Channel: m.ChannelID,
		Flags:   discordgo.MessageFlagsSuppressEmbeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to suppress embeds: %w", err)
	}

	if decision.Action != models.ActionSuppressAndReply {
		return nil
	}

	if _, err := b.session.ChannelMessageSendReply(m.ChannelID, truncate(decision.Reply), m.Reference(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send rewritten link: %w", err)
	}
	return nil
}

// onInteraction acknowledges an application command on the gateway goroutine
// and then queues it. The acknowledgement never waits for a pool slot.
func (b *Bot) onInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	b.mu.Lock()
	stopped := b.stopped
	b.mu.Unlock()
	if stopped {
		return
	}

	r := b.acknowledge(ctx, i)
	b.dispatch(ctx, "interaction", func(ctx context.Context) { b.respondInteraction(ctx, i, r) })
}

// acknowledge sends the deferred response for i. A failed acknowledgement is
// logged; the responder then retries it when the command runs.
func (b *Bot) acknowledge(ctx context.Context, i *discordgo.Interaction) *interactionResponder {
	r := newInteractionResponder(b.session, i)

	ackCtx, cancel := context.WithTimeout(ctx, ackTimeout)
	defer cancel()
	if err := r.Defer(ackCtx); err != nil {
		b.logger.Warn("failed to acknowledge interaction", "interaction", i.ID, "error", err)
	}
	return r
}

func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.respondInteraction(ctx, i, newInteractionResponder(b.session, i))
}

func (b *Bot) respondInteraction(ctx context.Context, i *discordgo.Interaction, r *interactionResponder) {
	inv, err := slashInvocation(i)
	if err != nil {
		b.logger.Warn("ignoring interaction", "error", err)
		return
	}
	inv.responder = r
	b.execute(ctx, inv)
}
