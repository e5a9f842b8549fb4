// package triage decides what to do with each incoming chat message: nothing,
// suppress the link preview, or suppress it and reply with a mirror link.
//
// Detection is raw substring containment for command markers and an unanchored
// domain regex for links, so a marker or link inside unrelated text still counts.
package triage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
)

const (
	DefaultLinkPattern = `https?://(www\.)?(tiktok\.com|vt\.tiktok\.com|vm\.tiktok\.com)/?`
	DefaultMirrorURL   = "https://tnktok.com/"
	DefaultPrefix      = "."
)

// CommandNames are the relay commands whose markers make a message a manual media command.
var CommandNames = []string{"vid", "img", "mp3"}

// Triage holds the compiled link pattern, mirror base and command markers.
type Triage struct {
	link    *regexp.Regexp
	mirror  string
	markers []string
}

// New builds a [Triage] for mirrorURL and prefix, using the defaults when empty.
func New(mirrorURL, prefix string) (*Triage, error) {
	return NewWithPattern(DefaultLinkPattern, mirrorURL, prefix)
}

// NewWithPattern is [New] with a custom link pattern.
func NewWithPattern(pattern, mirrorURL, prefix string) (*Triage, error) {
	if mirrorURL == "" {
		mirrorURL = DefaultMirrorURL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	link, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: link pattern: %v", shared.ErrInvalidConfig, err)
	}

	markers := make([]string, len(CommandNames))
	for i, name := range CommandNames {
		markers[i] = prefix + name
	}

	return &Triage{link: link, mirror: mirrorURL, markers: markers}, nil
}

// Decide maps the three message facts onto an action.
//
//	isCommand && hasLink                  → suppress
//	!isCommand && prefersRewrite && hasLink → suppress and reply
//	otherwise                             → none
func Decide(isCommand, prefersRewrite, hasLink bool) models.Action {
	switch {
	case isCommand && hasLink:
		return models.ActionSuppress
	case !isCommand && prefersRewrite && hasLink:
		return models.ActionSuppressAndReply
	default:
		return models.ActionNone
	}
}

// IsCommand reports whether content contains any relay command marker.
func (t *Triage) IsCommand(content string) bool {
	for _, m := range t.markers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}

// HasLink reports whether content contains a recognized link.
func (t *Triage) HasLink(content string) bool {
	return t.link.MatchString(content)
}

// Rewrite replaces every recognized link prefix with the mirror base, keeping
// whatever follows the matched prefix.
func (t *Triage) Rewrite(content string) string {
	return t.link.ReplaceAllLiteralString(content, t.mirror)
}

// Evaluate runs the full decision for one message. Reply is only set for
// [models.ActionSuppressAndReply].
func (t *Triage) Evaluate(content string, prefersRewrite bool) models.Decision {
	action := Decide(t.IsCommand(content), prefersRewrite, t.HasLink(content))
	d := models.Decision{Action: action}
	if action == models.ActionSuppressAndReply {
		d.Reply = t.Rewrite(content)
	}
	return d
}

// Mirror returns the configured mirror base URL.
func (t *Triage) Mirror() string { return t.mirror }
