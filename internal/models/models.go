// package models defines the data model for the media relay bot
package models

import (
	"fmt"
	"strings"
)

// UserSettings is the document stored in the settings file.
//
// A user absent from UserMap has autofix disabled.
type UserSettings struct {
	UserMap map[string]bool `json:"user_map"`
}

// MediaKind selects which field of a resolver response a command wants.
type MediaKind int

const (
	MediaVideo MediaKind = iota
	MediaAudio
	MediaImages
)

func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaImages:
		return "images"
	default:
		return ""
	}
}

// Extension returns the file extension used for local copies of this kind.
func (k MediaKind) Extension() string {
	switch k {
	case MediaVideo:
		return ".mp4"
	case MediaAudio:
		return ".mp3"
	case MediaImages:
		return ".jpg"
	default:
		return ".bin"
	}
}

// ParseMediaKind maps a kind name back to a [MediaKind].
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "vid":
		return MediaVideo, nil
	case "audio", "mp3", "music":
		return MediaAudio, nil
	case "images", "image", "img":
		return MediaImages, nil
	default:
		return 0, fmt.Errorf("unknown media kind %q", s)
	}
}

// ResolvedMedia holds the direct URLs for one resolution.
//
// Only the field matching Kind is populated.
type ResolvedMedia struct {
	Kind      MediaKind
	VideoURL  string
	AudioURL  string
	ImageURLs []string
}

// URLs returns the direct URLs in resolution order.
func (r *ResolvedMedia) URLs() []string {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case MediaVideo:
		return []string{r.VideoURL}
	case MediaAudio:
		return []string{r.AudioURL}
	case MediaImages:
		return r.ImageURLs
	default:
		return nil
	}
}

// LocalMediaFile is a scratch file created for one relay invocation.
type LocalMediaFile struct {
	Path  string
	Index int
	Kind  MediaKind
	Size  int64
}

// Action is the outcome of triaging one chat message.
type Action int

const (
	ActionNone Action = iota
	ActionSuppress
	ActionSuppressAndReply
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionSuppress:
		return "suppress"
	case ActionSuppressAndReply:
		return "suppress_and_reply"
	default:
		return ""
	}
}

// Decision is an [Action] with the reply text for [ActionSuppressAndReply].
type Decision struct {
	Action Action
	Reply  string
}
