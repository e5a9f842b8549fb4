package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/services"
	"github.com/desertthunder/faustok/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Responder is the chat-side port of a relay.
type Responder interface {
	// Defer acknowledges the command before any slow network call.
	Defer(ctx context.Context) error

	// Upload sends files as the attachments of one chat message.
	Upload(ctx context.Context, files []models.LocalMediaFile) error
}

// RelayRequest identifies one command invocation.
type RelayRequest struct {
	UserID    string
	SourceURL string
	Responder Responder
}

// RelayResult summarizes a completed relay.
type RelayResult struct {
	Media   *models.ResolvedMedia
	Files   []models.LocalMediaFile
	Batches int
	Bytes   int64
}

// RelayOpts contains the dependencies of a [RelayPipeline].
type RelayOpts struct {
	Resolver         services.Resolver
	Fetcher          services.Fetcher
	DownloadDir      string
	BatchSize        int
	FetchConcurrency int
	Logger           *log.Logger
	NewID            func() string
}

// RelayPipeline runs resolve → fetch → upload → delete for one media kind.
type RelayPipeline struct {
	resolver         services.Resolver
	fetcher          services.Fetcher
	downloadDir      string
	batchSize        int
	fetchConcurrency int
	logger           *log.Logger
	newID            func() string
}

// NewRelayPipeline creates a pipeline. Batch size and fetch concurrency default to 4 and 1.
func NewRelayPipeline(opts RelayOpts) *RelayPipeline {
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 4
	}
	if opts.FetchConcurrency < 1 {
		opts.FetchConcurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.NewID == nil {
		opts.NewID = shared.ShortID
	}

	return &RelayPipeline{
		resolver:         opts.Resolver,
		fetcher:          opts.Fetcher,
		downloadDir:      opts.DownloadDir,
		batchSize:        opts.BatchSize,
		fetchConcurrency: opts.FetchConcurrency,
		logger:           opts.Logger,
		newID:            opts.NewID,
	}
}

// Video relays the no-watermark video of req.SourceURL as one attachment.
func (p *RelayPipeline) Video(ctx context.Context, req RelayRequest, progress chan<- ProgressUpdate) (*RelayResult, error) {
	return p.relay(ctx, req, models.MediaVideo, progress)
}

// Audio relays the soundtrack of req.SourceURL as one attachment.
func (p *RelayPipeline) Audio(ctx context.Context, req RelayRequest, progress chan<- ProgressUpdate) (*RelayResult, error) {
	return p.relay(ctx, req, models.MediaAudio, progress)
}

// Images relays every slideshow image of req.SourceURL, one message per batch.
func (p *RelayPipeline) Images(ctx context.Context, req RelayRequest, progress chan<- ProgressUpdate) (*RelayResult, error) {
	return p.relay(ctx, req, models.MediaImages, progress)
}

// Relay dispatches to the entry point for kind.
func (p *RelayPipeline) Relay(ctx context.Context, kind models.MediaKind, req RelayRequest, progress chan<- ProgressUpdate) (*RelayResult, error) {
	switch kind {
	case models.MediaVideo:
		return p.Video(ctx, req, progress)
	case models.MediaAudio:
		return p.Audio(ctx, req, progress)
	case models.MediaImages:
		return p.Images(ctx, req, progress)
	default:
		return nil, fmt.Errorf("%w: media kind %d", shared.ErrInvalidArgument, kind)
	}
}

func (p *RelayPipeline) relay(ctx context.Context, req RelayRequest, kind models.MediaKind, progress chan<- ProgressUpdate) (result *RelayResult, err error) {
	if p.resolver == nil || p.fetcher == nil {
		return nil, fmt.Errorf("%w: relay pipeline has no resolver or fetcher", shared.ErrInvalidConfig)
	}
	if req.Responder == nil {
		return nil, fmt.Errorf("%w: responder", shared.ErrMissingArgument)
	}

	if err := req.Responder.Defer(ctx); err != nil {
		return nil, fmt.Errorf("failed to defer response: %w", err)
	}

	sendProgress(progress, resolvingUpdate(kind))
	media, err := p.resolver.Resolve(ctx, req.SourceURL, kind)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, resolvedUpdate(media))

	files := &fileSet{}
	defer func() {
		removed, cleanupErr := files.removeAll()
		sendProgress(progress, cleanupUpdate(removed, cleanupErr))
		if cleanupErr == nil {
			return
		}

		cleanupErr = fmt.Errorf("%w: %v", shared.ErrCleanup, cleanupErr)
		p.logger.Warn("relay cleanup failed", "user", req.UserID, "kind", kind, "error", cleanupErr)
		if err != nil {
			err = errors.Join(err, cleanupErr)
		} else {
			err = cleanupErr
		}
	}()

	fetched, err := p.fetchAll(ctx, req.UserID, media, files, progress)
	if err != nil {
		return nil, err
	}

	batches := [][]models.LocalMediaFile{fetched}
	if kind == models.MediaImages {
		batches = Batch(fetched, p.batchSize)
	}

	for i, batch := range batches {
		sendProgress(progress, uploadUpdate(i+1, len(batches), len(batch)))
		if err := req.Responder.Upload(ctx, batch); err != nil {
			return nil, fmt.Errorf("%w: batch %d/%d: %v", shared.ErrUpload, i+1, len(batches), err)
		}
	}

	result = &RelayResult{Media: media, Files: fetched, Batches: len(batches)}
	for _, f := range fetched {
		result.Bytes += f.Size
	}

	p.logger.Debug("relay complete", "user", req.UserID, "kind", kind, "files", len(fetched), "batches", len(batches), "bytes", result.Bytes)
	return result, nil
}

// fetchAll downloads every resolved URL. Paths are registered with files before
// any fetch starts so partial downloads are cleaned up too.
func (p *RelayPipeline) fetchAll(ctx context.Context, userID string, media *models.ResolvedMedia, files *fileSet, progress chan<- ProgressUpdate) ([]models.LocalMediaFile, error) {
	urls := media.URLs()
	requestID := p.newID()

	if err := os.MkdirAll(p.downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", shared.ErrDownload, p.downloadDir, err)
	}

	out := make([]models.LocalMediaFile, len(urls))
	for i := range urls {
		out[i] = models.LocalMediaFile{
			Path:  p.filePath(userID, requestID, media.Kind, i),
			Index: i,
			Kind:  media.Kind,
		}
		files.add(out[i].Path)
	}

	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			n, err := p.fetcher.Fetch(gctx, u, out[i].Path)
			if err != nil {
				return fmt.Errorf("%s %d/%d: %w", media.Kind, i+1, len(urls), err)
			}
			out[i].Size = n
			sendProgress(progress, fetchedUpdate(int(done.Add(1)), len(urls), out[i]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *RelayPipeline) filePath(userID, requestID string, kind models.MediaKind, index int) string {
	name := sanitizeName(userID) + "_" + requestID
	if kind == models.MediaImages {
		name = fmt.Sprintf("%s_%d", name, index)
	}
	return filepath.Join(p.downloadDir, name+kind.Extension())
}

func sanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
	if s == "" {
		return "anon"
	}
	return s
}

// fileSet tracks the local files owned by one relay invocation.
type fileSet struct {
	mu    sync.Mutex
	paths []string
}

func (f *fileSet) add(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

// removeAll deletes every registered path. Paths that were never created are skipped.
func (f *fileSet) removeAll() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	var errs []error
	for _, path := range f.paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, err)
		}
	}
	f.paths = nil
	return removed, errors.Join(errs...)
}
