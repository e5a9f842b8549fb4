// Tiklydown API [Resolver] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
)

const defaultTiklydownBaseURL string = "https://api.tiklydown.eu.org/api/download?url="

// TiklydownVideo is the video object of a resolver response.
type TiklydownVideo struct {
	NoWatermark string `json:"noWatermark"`
}

// TiklydownImage is one slideshow image of a resolver response.
type TiklydownImage struct {
	URL string `json:"url"`
}

// TiklydownMusic is the music object of a resolver response.
type TiklydownMusic struct {
	PlayURL string `json:"play_url"`
}

// TiklydownResponse is the subset of the resolver document the bot reads.
//
// Every field can be absent independently of the others.
type TiklydownResponse struct {
	Video  *TiklydownVideo  `json:"video"`
	Images []TiklydownImage `json:"images"`
	Music  *TiklydownMusic  `json:"music"`
}

// TiklydownService implements [Resolver] against the tiklydown download API.
type TiklydownService struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewTiklydownService creates a resolver. The source URL is appended, escaped, to baseURL.
func NewTiklydownService(baseURL string, client *http.Client) *TiklydownService {
	if baseURL == "" {
		baseURL = defaultTiklydownBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TiklydownService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// WithTimeout bounds each resolution request. Zero means only the caller's context applies.
func (s *TiklydownService) WithTimeout(d time.Duration) *TiklydownService {
	s.timeout = d
	return s
}

// Resolve issues one GET for sourceURL and selects the requested kind.
func (s *TiklydownService) Resolve(ctx context.Context, sourceURL string, kind models.MediaKind) (*models.ResolvedMedia, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, fmt.Errorf("%w: source url", shared.ErrMissingArgument)
	}

	resp, err := s.lookup(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	return selectMedia(resp, kind)
}

func (s *TiklydownService) lookup(ctx context.Context, sourceURL string) (*TiklydownResponse, error) {
	fullURL := s.baseURL + url.QueryEscape(sourceURL)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrResolve, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrResolve, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrResolve, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: resolver returned status %d", shared.ErrResolve, resp.StatusCode)
	}

	var decoded TiklydownResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrResolve, err)
	}

	return &decoded, nil
}

func selectMedia(resp *TiklydownResponse, kind models.MediaKind) (*models.ResolvedMedia, error) {
	media := &models.ResolvedMedia{Kind: kind}

	switch kind {
	case models.MediaVideo:
		if resp.Video == nil || resp.Video.NoWatermark == "" {
			return nil, fmt.Errorf("%w: video URL not found in the response", shared.ErrMediaNotFound)
		}
		media.VideoURL = resp.Video.NoWatermark
	case models.MediaAudio:
		if resp.Music == nil || resp.Music.PlayURL == "" {
			return nil, fmt.Errorf("%w: audio URL not found in the response", shared.ErrMediaNotFound)
		}
		media.AudioURL = resp.Music.PlayURL
	case models.MediaImages:
		for _, img := range resp.Images {
			if img.URL != "" {
				media.ImageURLs = append(media.ImageURLs, img.URL)
			}
		}
		if len(media.ImageURLs) == 0 {
			return nil, fmt.Errorf("%w: images not found in the response", shared.ErrMediaNotFound)
		}
	default:
		return nil, fmt.Errorf("%w: media kind %d", shared.ErrInvalidArgument, kind)
	}

	return media, nil
}
