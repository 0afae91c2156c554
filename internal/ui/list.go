package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/showtrack/internal/models"
)

var (
	_ list.Item = showItem{}
	_ list.Item = episodeItem{}
)

// showItem wraps [models.Show] to implement [list.Item].
type showItem struct {
	show *models.Show
}

func (i showItem) FilterValue() string { return i.show.Name }
func (i showItem) Title() string       { return i.show.Name }
func (i showItem) Description() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.show.Network, i.show.Status, strings.Join(i.show.Genre, ", ")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

// episodeItem wraps [models.Episode] to implement [list.Item].
type episodeItem struct {
	episode models.Episode
}

func (i episodeItem) FilterValue() string { return i.episode.EpisodeName }
func (i episodeItem) Title() string {
	return fmt.Sprintf("S%02dE%02d %s", i.episode.Season, i.episode.EpisodeNumber, i.episode.EpisodeName)
}
func (i episodeItem) Description() string {
	if i.episode.FirstAired == nil {
		return "unaired"
	}
	return i.episode.FirstAired.Format("Jan 2, 2006")
}
