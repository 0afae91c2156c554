package tasks

import (
	"fmt"

	"github.com/desertthunder/showtrack/internal/models"
)

// ProgressUpdate represents a progress event during an import.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number
	Total   int    // Total steps in the pipeline
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase is one step of the import pipeline.
type Phase int

const (
	SearchSeries Phase = iota
	FetchSeries
	FetchPoster
	SaveShow
)

// importSteps is the number of phases a full import walks through.
const importSteps = 4

func (p Phase) String() string {
	switch p {
	case SearchSeries:
		return "search_series"
	case FetchSeries:
		return "fetch_series"
	case FetchPoster:
		return "fetch_poster"
	case SaveShow:
		return "save_show"
	default:
		return ""
	}
}

func searchSeriesUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchSeries,
		Step:    1,
		Total:   importSteps,
		Message: fmt.Sprintf("Searching for %q...", name),
	}
}

func fetchSeriesUpdate(seriesID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSeries,
		Step:    2,
		Total:   importSteps,
		Message: fmt.Sprintf("Fetching series %s...", seriesID),
		Data:    seriesID,
	}
}

func fetchPosterUpdate(show *models.Show) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPoster,
		Step:    3,
		Total:   importSteps,
		Message: fmt.Sprintf("Fetching poster for %s (%d episodes)...", show.Name, len(show.Episodes)),
		Data:    show.Poster,
	}
}

func saveShowUpdate(show *models.Show) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveShow,
		Step:    4,
		Total:   importSteps,
		Message: fmt.Sprintf("Saving %s...", show.Name),
		Data:    show.ID,
	}
}
