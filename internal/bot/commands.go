package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/desertthunder/faustok/internal/formatter"
	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
	"github.com/desertthunder/faustok/internal/tasks"
)

// Command names, shared by slash and prefix forms.
const (
	CmdVideo        = "vid"
	CmdImages       = "img"
	CmdAudio        = "mp3"
	CmdAutofix      = "autofix"
	CmdCheckAutofix = "check_autofix"
	CmdHelp         = "help"
	CmdAbout        = "about"
)

// relayKind maps a relay command name to the media it sends.
func relayKind(name string) (models.MediaKind, bool) {
	switch name {
	case CmdVideo, CmdImages, CmdAudio:
		kind, err := models.ParseMediaKind(name)
		return kind, err == nil
	default:
		return 0, false
	}
}

// Commands returns the slash command definitions registered on ready.
func Commands() []*discordgo.ApplicationCommand {
	urlOption := func() []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "url",
			Description: "TikTok URL",
			Required:    true,
		}}
	}

	return []*discordgo.ApplicationCommand{
		{Name: CmdAutofix, Description: "Toggle automatic mirror links for your messages", Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "value",
			Description: "Value to set (true or false)",
			Required:    true,
		}}},
		{Name: CmdCheckAutofix, Description: "Check autofix status", Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Selected user",
		}}},
		{Name: CmdVideo, Description: "Download a TikTok video", Options: urlOption()},
		{Name: CmdImages, Description: "Download images from a TikTok slideshow", Options: urlOption()},
		{Name: CmdAudio, Description: "Download music from a TikTok video", Options: urlOption()},
		{Name: CmdHelp, Description: "Shows the command list"},
		{Name: CmdAbout, Description: "Shows information about the bot"},
	}
}

// responder answers one command invocation.
type responder interface {
	tasks.Responder
	Reply(ctx context.Context, content string) error
}

// invocation is a parsed command independent of how it arrived.
type invocation struct {
	name      string
	userID    string
	url       string
	value     *bool
	target    string
	argErr    error
	responder responder
}

func (b *Bot) parsePrefixCommand(m *discordgo.Message) (invocation, bool) {
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, b.prefix) {
		return invocation{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, b.prefix))
	if len(fields) == 0 {
		return invocation{}, false
	}

	inv := invocation{
		name:      strings.ToLower(fields[0]),
		userID:    m.Author.ID,
		responder: newChannelResponder(b.session, m),
	}
	args := fields[1:]

	switch inv.name {
	case CmdVideo, CmdImages, CmdAudio:
		if len(args) > 0 {
			inv.url = unwrapURL(args[0])
		}
	case CmdAutofix:
		if len(args) == 0 {
			inv.argErr = fmt.Errorf("%w: value", shared.ErrMissingArgument)
			break
		}
		v, err := parseBool(args[0])
		if err != nil {
			inv.argErr = err
			break
		}
		inv.value = &v
	case CmdCheckAutofix:
		switch {
		case len(m.Mentions) > 0 && m.Mentions[0] != nil:
			inv.target = m.Mentions[0].ID
		case len(args) > 0:
			inv.target = mentionID(args[0])
		}
	case CmdHelp, CmdAbout:
	default:
		return invocation{}, false
	}

	return inv, true
}

func slashInvocation(i *discordgo.Interaction) (invocation, error) {
	data := i.ApplicationCommandData()
	inv := invocation{name: data.Name, userID: interactionUserID(i)}
	if inv.userID == "" {
		return inv, fmt.Errorf("%w: interaction has no user", shared.ErrInvalidArgument)
	}

	for _, opt := range data.Options {
		switch opt.Name {
		case "url":
			inv.url = strings.TrimSpace(opt.StringValue())
		case "value":
			v := opt.BoolValue()
			inv.value = &v
		case "user":
			if u := opt.UserValue(nil); u != nil {
				inv.target = u.ID
			}
		}
	}

	if inv.name == CmdAutofix && inv.value == nil {
		inv.argErr = fmt.Errorf("%w: value", shared.ErrMissingArgument)
	}
	return inv, nil
}

func interactionUserID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// execute runs a command. Failures are logged and answered with a failure reply.
func (b *Bot) execute(ctx context.Context, inv invocation) {
	logger := shared.WithLogger(b.logger, "command", inv.name, "user", inv.userID)

	kind, isRelay := relayKind(inv.name)

	var err error
	switch {
	case inv.argErr != nil:
		err = inv.argErr
	case isRelay:
		err = b.relay(ctx, inv, kind)
	case inv.name == CmdAutofix:
		err = b.autofix(ctx, inv)
	case inv.name == CmdCheckAutofix:
		target := inv.target
		if target == "" {
			target = inv.userID
		}
		err = inv.responder.Reply(ctx, formatter.AutofixStatus(target, b.settings.Get(target)))
	case inv.name == CmdHelp:
		err = inv.responder.Reply(ctx, formatter.Help(b.prefix))
	case inv.name == CmdAbout:
		err = inv.responder.Reply(ctx, formatter.About())
	default:
		err = fmt.Errorf("%w: %s", shared.ErrUnknownCommand, inv.name)
	}

	if err == nil {
		return
	}

	logger.Error("command failed", "error", err)
	if replyErr := inv.responder.Reply(ctx, formatter.Failure(inv.name, err)); replyErr != nil {
		logger.Error("failed to send failure reply", "error", replyErr)
	}
}

func (b *Bot) relay(ctx context.Context, inv invocation, kind models.MediaKind) error {
	if inv.url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	logger := shared.WithLogger(b.logger, "command", inv.name, "user", inv.userID)
	progress := make(chan tasks.ProgressUpdate, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := b.relayer.Relay(ctx, kind, tasks.RelayRequest{
		UserID:    inv.userID,
		SourceURL: inv.url,
		Responder: inv.responder,
	}, progress)
	close(progress)
	<-drained

	if err != nil {
		return err
	}

	logger.Info(formatter.RelaySummary(kind, len(result.Files), result.Batches, result.Bytes))
	return nil
}

func (b *Bot) autofix(ctx context.Context, inv invocation) error {
	value := *inv.value
	err := b.settings.SetAndPersist(inv.userID, value)
	switch {
	case err == nil:
		return inv.responder.Reply(ctx, formatter.AutofixUpdated(inv.userID, value))
	case errors.Is(err, shared.ErrPersist):
		b.logger.Warn("autofix kept in memory only", "user", inv.userID, "value", value, "error", err)
		return inv.responder.Reply(ctx, formatter.AutofixNotSaved(inv.userID, value))
	default:
		return err
	}
}

// unwrapURL strips the angle brackets used to suppress embeds in chat.
func unwrapURL(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}

// mentionID extracts the user id from a <@id> or <@!id> mention.
func mentionID(s string) string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
	return strings.TrimPrefix(s, "!")
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on", "enable", "enabled":
		return true, nil
	case "no", "n", "off", "disable", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean", shared.ErrInvalidArgument, s)
	}
	return v, nil
}
