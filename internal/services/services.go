package services

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/showtrack/internal/models"
)

// MetadataService defines the TV metadata provider used by the show importer.
type MetadataService interface {
	// SearchSeries looks up series candidates by normalized name.
	// An empty result (not an error) means the provider knows no such series.
	SearchSeries(ctx context.Context, name string) ([]SeriesSummary, error)

	// GetSeries retrieves the full series record and its episodes.
	GetSeries(ctx context.Context, seriesID string) (*SeriesDetail, error)

	// FetchBanner downloads an image from the provider's banner host.
	FetchBanner(ctx context.Context, path string) (*Banner, error)

	// Name returns the name of the provider (e.g., "TheTVDB")
	Name() string
}

// SeriesSummary is one candidate from a name search.
type SeriesSummary struct {
	SeriesID   string `xml:"seriesid"`
	ID         string `xml:"id"`
	SeriesName string `xml:"SeriesName"`
	FirstAired string `xml:"FirstAired"`
	Network    string `xml:"Network"`
}

// SeriesRecord is the provider's full series element.
type SeriesRecord struct {
	ID            string `xml:"id"`
	SeriesName    string `xml:"SeriesName"`
	AirsDayOfWeek string `xml:"Airs_DayOfWeek"`
	AirsTime      string `xml:"Airs_Time"`
	FirstAired    string `xml:"FirstAired"`
	Genre         string `xml:"Genre"`
	Network       string `xml:"Network"`
	Overview      string `xml:"Overview"`
	Rating        string `xml:"Rating"`
	RatingCount   string `xml:"RatingCount"`
	Runtime       string `xml:"Runtime"`
	Status        string `xml:"Status"`
	Poster        string `xml:"poster"`
}

// EpisodeRecord is the provider's episode element.
type EpisodeRecord struct {
	SeasonNumber  string `xml:"SeasonNumber"`
	EpisodeNumber string `xml:"EpisodeNumber"`
	EpisodeName   string `xml:"EpisodeName"`
	FirstAired    string `xml:"FirstAired"`
	Overview      string `xml:"Overview"`
}

// SeriesDetail is a parsed detail document: exactly one series and its episodes in provider order.
type SeriesDetail struct {
	Series   SeriesRecord
	Episodes []EpisodeRecord
}

// Banner is a fetched image with its media type.
type Banner struct {
	ContentType string
	Data        []byte
}

// DataURI encodes the banner as a self-contained `data:` URI.
func (b *Banner) DataURI() string {
	return "data:" + b.ContentType + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// Show maps the provider detail to a [models.Show]. Poster keeps the provider's relative banner path.
//
// Unparseable numbers map to zero and unparseable dates to nil.
func (d *SeriesDetail) Show() *models.Show {
	s := d.Series
	show := &models.Show{
		ID:            parseInt(s.ID),
		Name:          strings.TrimSpace(s.SeriesName),
		AirsDayOfWeek: s.AirsDayOfWeek,
		AirsTime:      s.AirsTime,
		FirstAired:    parseDate(s.FirstAired),
		Genre:         SplitGenres(s.Genre),
		Network:       s.Network,
		Overview:      s.Overview,
		Rating:        parseFloat(s.Rating),
		RatingCount:   parseInt(s.RatingCount),
		Status:        s.Status,
		Poster:        strings.TrimSpace(s.Poster),
		Subscribers:   []string{},
		Episodes:      make([]models.Episode, 0, len(d.Episodes)),
	}

	for _, e := range d.Episodes {
		show.Episodes = append(show.Episodes, models.Episode{
			Season:        parseInt(e.SeasonNumber),
			EpisodeNumber: parseInt(e.EpisodeNumber),
			EpisodeName:   e.EpisodeName,
			FirstAired:    parseDate(e.FirstAired),
			Overview:      e.Overview,
		})
	}

	return show
}

// SplitGenres splits the provider's pipe-delimited genre string, dropping empty segments.
// Segments are kept verbatim, so a whitespace-only segment survives.
//
// "|Drama|Science-Fiction|" yields [Drama Science-Fiction].
func SplitGenres(raw string) []string {
	genres := []string{}
	for g := range strings.SplitSeq(raw, "|") {
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
