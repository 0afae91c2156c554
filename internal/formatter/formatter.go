// package formatter renders shows and users for the terminal (tables), spreadsheets (CSV) and docs (Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/showtrack/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

const dateLayout = time.DateOnly

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// ShowsTable renders shows as a bordered table: ID, Name, Network, Status, Genres, Rating, Episodes
func ShowsTable(shows []*models.Show) string {
	t := newTable("ID", "Name", "Network", "Status", "Genres", "Rating", "Episodes")
	for _, s := range shows {
		t.Row(
			strconv.Itoa(s.ID),
			s.Name,
			s.Network,
			s.Status,
			strings.Join(s.Genre, ", "),
			formatRating(s.Rating, s.RatingCount),
			strconv.Itoa(len(s.Episodes)),
		)
	}
	return t.Render()
}

// UsersTable renders users as a bordered table. Password hashes are never shown.
func UsersTable(users []*models.User) string {
	t := newTable("ID", "Email", "Created")
	for _, u := range users {
		t.Row(u.ID, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	return t.Render()
}

// ExportToCSV converts shows to CSV format with columns: ID, Name, Network, Status, FirstAired, Genres, Rating, RatingCount
func ExportToCSV(shows []*models.Show) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Network", "Status", "FirstAired", "Genres", "Rating", "RatingCount"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range shows {
		record := []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Network,
			s.Status,
			formatDate(s.FirstAired),
			strings.Join(s.Genre, "|"),
			strconv.FormatFloat(s.Rating, 'f', -1, 64),
			strconv.Itoa(s.RatingCount),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders one show as an episode guide grouped by season.
func ExportToMarkdown(show *models.Show) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", show.Name)

	if show.Overview != "" {
		fmt.Fprintf(&buf, "%s\n\n", show.Overview)
	}

	if show.Network != "" {
		fmt.Fprintf(&buf, "**Network**: %s\n", show.Network)
	}
	if show.AirsDayOfWeek != "" {
		fmt.Fprintf(&buf, "**Airs**: %s %s\n", show.AirsDayOfWeek, show.AirsTime)
	}
	if show.Status != "" {
		fmt.Fprintf(&buf, "**Status**: %s\n", show.Status)
	}
	if len(show.Genre) > 0 {
		fmt.Fprintf(&buf, "**Genres**: %s\n", strings.Join(show.Genre, ", "))
	}
	fmt.Fprintf(&buf, "**Episodes**: %d\n", len(show.Episodes))

	season := -1
	for _, ep := range show.Episodes {
		if ep.Season != season {
			season = ep.Season
			if season == 0 {
				buf.WriteString("\n## Specials\n\n")
			} else {
				fmt.Fprintf(&buf, "\n## Season %d\n\n", season)
			}
		}

		aired := ""
		if ep.FirstAired != nil {
			aired = fmt.Sprintf(" [%s]", formatDate(ep.FirstAired))
		}
		fmt.Fprintf(&buf, "%d. %s%s\n", ep.EpisodeNumber, ep.EpisodeName, aired)
	}

	return buf.Bytes()
}

func formatRating(rating float64, count int) string {
	if count == 0 && rating == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", rating, count)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
