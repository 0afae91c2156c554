// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeShowName turns a free-text show name into a provider lookup key:
// lowercased, spaces replaced with underscores, and anything outside [A-Za-z0-9_-] removed.
func NormalizeShowName(name string) string {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "_")
	return nonSlugChars.ReplaceAllString(key, "")
}

// MarshalJSON encodes data as JSON, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
