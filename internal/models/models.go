package models

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
)

// DefaultListLimit caps unfiltered show listings.
const DefaultListLimit = 12

// Show is one tracked television series, keyed by the metadata provider's series id.
type Show struct {
	ID            int        `json:"_id"`
	Name          string     `json:"name"`
	AirsDayOfWeek string     `json:"airsDayOfWeek"`
	AirsTime      string     `json:"airsTime"`
	FirstAired    *time.Time `json:"firstAired,omitempty"`
	Genre         []string   `json:"genre"`
	Network       string     `json:"network"`
	Overview      string     `json:"overview"`
	Rating        float64    `json:"rating"`
	RatingCount   int        `json:"ratingCount"`
	Status        string     `json:"status"`
	Poster        string     `json:"poster"`
	Subscribers   []string   `json:"subscribers"`
	Episodes      []Episode  `json:"episodes"`
}

// Episode is a value owned by its [Show]; it has no identity of its own.
type Episode struct {
	Season        int        `json:"season"`
	EpisodeNumber int        `json:"episodeNumber"`
	EpisodeName   string     `json:"episodeName"`
	FirstAired    *time.Time `json:"firstAired,omitempty"`
	Overview      string     `json:"overview"`
}

// Validate checks the fields required to persist a show.
func (s *Show) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("show id must be positive, got %d", s.ID)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("show name is required")
	}
	return nil
}

// HasGenre reports whether the genre set contains g (exact, case-sensitive).
func (s *Show) HasGenre(g string) bool {
	return slices.Contains(s.Genre, g)
}

// HasSubscriber reports whether userID is subscribed to the show.
func (s *Show) HasSubscriber(userID string) bool {
	return slices.Contains(s.Subscribers, userID)
}

// ShowFilter selects shows for listing. Genre takes precedence over Alphabet;
// with neither set the listing is capped at [DefaultListLimit].
type ShowFilter struct {
	Genre    string
	Alphabet string
}

// Mode names the filter that applies: "genre", "alphabet" or "default".
func (f ShowFilter) Mode() string {
	switch {
	case f.Genre != "":
		return "genre"
	case f.Alphabet != "":
		return "alphabet"
	default:
		return "default"
	}
}

// Letters returns the distinct lowercased letters of Alphabet in input order.
func (f ShowFilter) Letters() []string {
	var letters []string
	for _, r := range strings.ToLower(f.Alphabet) {
		l := string(r)
		if !slices.Contains(letters, l) {
			letters = append(letters, l)
		}
	}
	return letters
}

// User is an account that can log in. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `json:"_id"`
	Sequence  int       `json:"-"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser creates a user with creation timestamps set to now.
func NewUser(email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Email:     email,
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the fields required to persist a user.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email %q", u.Email)
	}
	if u.Password == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
