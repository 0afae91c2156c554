package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/metrics"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/services"
	"github.com/desertthunder/showtrack/internal/shared"
)

// ShowNotFoundError reports that the metadata provider knows no series by the requested name.
type ShowNotFoundError struct {
	Name string // Name as the caller supplied it
}

func (e *ShowNotFoundError) Error() string {
	return e.Name + " was not found."
}

func (e *ShowNotFoundError) Is(target error) bool {
	return target == shared.ErrNotFound
}

// ShowExistsError reports that the resolved series is already stored.
type ShowExistsError struct {
	Name string // Name as reported by the provider
}

func (e *ShowExistsError) Error() string {
	return e.Name + " already exists."
}

func (e *ShowExistsError) Is(target error) bool {
	return target == shared.ErrAlreadyExists
}

// ImportError wraps an unexpected failure with the phase that produced it.
type ImportError struct {
	Step Phase
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed at %s: %v", e.Step, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ShowStore is the persistence the importer writes to.
type ShowStore interface {
	Create(ctx context.Context, show *models.Show) error
}

// ShowImporter resolves a show by name against a [services.MetadataService] and persists it.
//
// Each phase starts only after the previous one has completed; nothing is retried.
type ShowImporter struct {
	provider services.MetadataService
	store    ShowStore
	logger   *log.Logger
}

// NewShowImporter creates a new ShowImporter with the provided provider and store.
func NewShowImporter(provider services.MetadataService, store ShowStore, logger *log.Logger) *ShowImporter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &ShowImporter{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (i *ShowImporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	i.logger.Debug("import phase", "phase", update.Phase, "step", update.Step, "message", update.Message)
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import runs the full pipeline for name and returns the stored show.
//
// Terminal outcomes are [*ShowNotFoundError] and [*ShowExistsError]; anything else is an [*ImportError].
// progress may be nil.
func (i *ShowImporter) Import(ctx context.Context, name string, progress chan<- ProgressUpdate) (show *models.Show, err error) {
	start := time.Now()
	defer func() { i.record(name, err, time.Since(start)) }()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: show name is required", shared.ErrInvalidInput)
	}

	key := shared.NormalizeShowName(name)
	if key == "" {
		return nil, &ShowNotFoundError{Name: name}
	}

	i.sendProgress(progress, searchSeriesUpdate(key))

	candidates, err := i.provider.SearchSeries(ctx, key)
	if err != nil {
		return nil, &ImportError{Step: SearchSeries, Err: err}
	}

	seriesID := firstSeriesID(candidates)
	if seriesID == "" {
		return nil, &ShowNotFoundError{Name: name}
	}

	i.sendProgress(progress, fetchSeriesUpdate(seriesID))

	detail, err := i.provider.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, &ImportError{Step: FetchSeries, Err: err}
	}

	show = detail.Show()
	if err := show.Validate(); err != nil {
		return nil, &ImportError{
			Step: FetchSeries,
			Err:  fmt.Errorf("%w: series %s: %v", shared.ErrUpstream, seriesID, err),
		}
	}

	if show.Poster != "" {
		i.sendProgress(progress, fetchPosterUpdate(show))

		banner, err := i.provider.FetchBanner(ctx, show.Poster)
		if err != nil {
			return nil, &ImportError{Step: FetchPoster, Err: err}
		}
		show.Poster = banner.DataURI()
	}

	i.sendProgress(progress, saveShowUpdate(show))

	if err := i.store.Create(ctx, show); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			return nil, &ShowExistsError{Name: show.Name}
		}
		return nil, &ImportError{Step: SaveShow, Err: err}
	}

	return show, nil
}

func (i *ShowImporter) record(name string, err error, elapsed time.Duration) {
	outcome := "imported"
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, shared.ErrAlreadyExists):
		outcome = "exists"
	default:
		outcome = "failed"
	}
	metrics.RecordImport(outcome, elapsed)

	if outcome == "failed" {
		i.logger.Error("show import failed", "name", name, "error", err, "elapsed", elapsed)
		return
	}
	i.logger.Info("show import finished", "name", name, "outcome", outcome, "elapsed", elapsed)
}

// firstSeriesID picks the provider's first candidate when a search is ambiguous.
func firstSeriesID(candidates []services.SeriesSummary) string {
	for _, c := range candidates {
		if c.SeriesID != "" {
			return c.SeriesID
		}
	}
	return ""
}
