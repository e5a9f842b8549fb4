package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/desertthunder/faustok/internal/models"
)

// channelResponder answers a prefix command by replying to the command message.
type channelResponder struct {
	session Session
	message *discordgo.Message
}

func newChannelResponder(s Session, m *discordgo.Message) *channelResponder {
	return &channelResponder{session: s, message: m}
}

// Defer shows the typing indicator; prefix commands have no interaction window.
func (r *channelResponder) Defer(ctx context.Context) error {
	return r.session.ChannelTyping(r.message.ChannelID, discordgo.WithContext(ctx))
}

func (r *channelResponder) Upload(ctx context.Context, files []models.LocalMediaFile) error {
	attachments, closeAll, err := openAttachments(files)
	if err != nil {
		return err
	}
	defer closeAll()

	_, err = r.session.ChannelMessageSendComplex(r.message.ChannelID, &discordgo.MessageSend{
		Files:     attachments,
		Reference: r.message.Reference(),
	}, discordgo.WithContext(ctx))
	return err
}

func (r *channelResponder) Reply(ctx context.Context, content string) error {
	_, err := r.session.ChannelMessageSendReply(r.message.ChannelID, truncate(content), r.message.Reference(), discordgo.WithContext(ctx))
	return err
}

// interactionResponder answers a slash command. Once deferred, every answer is
// a follow-up message.
type interactionResponder struct {
	session     Session
	interaction *discordgo.Interaction
	deferred    atomic.Bool
}

func newInteractionResponder(s Session, i *discordgo.Interaction) *interactionResponder {
	return &interactionResponder{session: s, interaction: i}
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	if r.deferred.Load() {
		return nil
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	r.deferred.Store(true)
	return nil
}

func (r *interactionResponder) Upload(ctx context.Context, files []models.LocalMediaFile) error {
	attachments, closeAll, err := openAttachments(files)
	if err != nil {
		return err
	}
	defer closeAll()

	_, err = r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Files: attachments,
	}, discordgo.WithContext(ctx))
	return err
}

func (r *interactionResponder) Reply(ctx context.Context, content string) error {
	content = truncate(content)
	if r.deferred.Load() {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content: content,
		}, discordgo.WithContext(ctx))
		return err
	}

	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	}, discordgo.WithContext(ctx))
}

// openAttachments opens every file for upload. The returned func closes them.
func openAttachments(files []models.LocalMediaFile) ([]*discordgo.File, func(), error) {
	opened := make([]*os.File, 0, len(files))
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	attachments := make([]*discordgo.File, 0, len(files))
	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
		}
		opened = append(opened, f)
		attachments = append(attachments, &discordgo.File{
			Name:        filepath.Base(file.Path),
			ContentType: contentType(file.Kind),
			Reader:      f,
		})
	}
	return attachments, closeAll, nil
}

func contentType(kind models.MediaKind) string {
	switch kind {
	case models.MediaVideo:
		return "video/mp4"
	case models.MediaAudio:
		return "audio/mpeg"
	case models.MediaImages:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// truncate caps text at Discord's message limit, counted in runes.
func truncate(text string) string {
	const maxLength = 2000
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength-3]) + "..."
}
