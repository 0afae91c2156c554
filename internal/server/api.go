package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/auth"
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/desertthunder/showtrack/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// userCookieName carries the logged-in user as JSON for the front end.
const userCookieName = "user"

// ShowService is the show persistence the API reads and subscribes through.
type ShowService interface {
	List(ctx context.Context, filter models.ShowFilter) ([]*models.Show, error)
	Get(ctx context.Context, id int) (*models.Show, error)
	Subscribe(ctx context.Context, showID int, userID string) error
	Unsubscribe(ctx context.Context, showID int, userID string) error
}

// UserService is the account persistence the API lists and signs up through.
type UserService interface {
	Create(ctx context.Context, email, password string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// ShowImporter imports a show by name.
type ShowImporter interface {
	Import(ctx context.Context, name string, progress chan<- tasks.ProgressUpdate) (*models.Show, error)
}

// API serves the JSON endpoints under /api.
type API struct {
	shows          ShowService
	users          UserService
	importer       ShowImporter
	gateway        *auth.Gateway
	logger         *log.Logger
	loginRateLimit int
}

// NewAPI creates a new [API] with its collaborators.
func NewAPI(shows ShowService, users UserService, importer ShowImporter, gateway *auth.Gateway, logger *log.Logger) *API {
	return &API{
		shows:    shows,
		users:    users,
		importer: importer,
		gateway:  gateway,
		logger:   logger,
	}
}

// SetLoginRateLimit caps login attempts per client IP per minute. Values <= 0 disable the cap.
func (a *API) SetLoginRateLimit(perMinute int) {
	a.loginRateLimit = perMinute
}

// Register mounts every API route on r.
func (a *API) Register(r *ChiRouter) {
	r.Handle(http.MethodGet, "/api/shows", http.HandlerFunc(a.listShows))
	r.Handle(http.MethodGet, "/api/shows/{id}", http.HandlerFunc(a.getShow))
	r.Handle(http.MethodPost, "/api/shows", http.HandlerFunc(a.addShow))

	r.Handle(http.MethodGet, "/api/users", http.HandlerFunc(a.listUsers))
	r.Handle(http.MethodPost, "/api/users", http.HandlerFunc(a.listUsers))

	r.With(RateLimitByIP(a.loginRateLimit)).Handle(http.MethodPost, "/api/login", http.HandlerFunc(a.login))
	r.Handle(http.MethodPost, "/api/signup", http.HandlerFunc(a.signup))
	r.Handle(http.MethodPost, "/api/logout", http.HandlerFunc(a.logout))

	protected := r.With(a.gateway.RequireAuth)
	protected.Handle(http.MethodGet, "/api/me", http.HandlerFunc(a.me))
	protected.Handle(http.MethodPost, "/api/subscribe", http.HandlerFunc(a.subscribe))
	protected.Handle(http.MethodPost, "/api/unsubscribe", http.HandlerFunc(a.unsubscribe))
}

func (a *API) listShows(w http.ResponseWriter, r *http.Request) {
	req := ShowListRequest{
		Genre:    r.URL.Query().Get("genre"),
		Alphabet: r.URL.Query().Get("alphabet"),
	}
	// genre wins over alphabet, so an ignored alphabet is never validated
	if req.Genre != "" {
		req.Alphabet = ""
	}
	if err := validateRequest(&req); err != nil {
		a.writeError(w, r, err)
		return
	}

	shows, err := a.shows.List(r.Context(), models.ShowFilter{Genre: req.Genre, Alphabet: req.Alphabet})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

func (a *API) getShow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Show id must be a positive integer."})
		return
	}

	show, err := a.shows.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (a *API) addShow(w http.ResponseWriter, r *http.Request) {
	var req AddShowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	show, err := a.importer.Import(r.Context(), req.ShowName, nil)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: show.Name + " has been added."})
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	user, session, err := a.gateway.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if old := a.gateway.SessionID(r); old != "" && old != session.ID {
		a.gateway.Logout(r.Context(), old)
	}

	a.gateway.SetSessionCookie(w, session)
	if data, err := json.Marshal(user); err == nil {
		http.SetCookie(w, &http.Cookie{Name: userCookieName, Value: url.PathEscape(string(data)), Path: "/"})
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) signup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Password)
	if errors.Is(err, shared.ErrDuplicateKey) {
		writeJSON(w, http.StatusConflict, messageResponse{Message: "That email is already taken."})
		return
	}
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.gateway.Logout(r.Context(), a.gateway.SessionID(r)); err != nil {
		a.writeError(w, r, err)
		return
	}

	a.gateway.ClearSessionCookie(w)
	http.SetCookie(w, &http.Cookie{Name: userCookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusOK)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auth.UserFromContext(r.Context()))
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) {
	a.changeSubscription(w, r, a.shows.Subscribe)
}

func (a *API) unsubscribe(w http.ResponseWriter, r *http.Request) {
	a.changeSubscription(w, r, a.shows.Unsubscribe)
}

func (a *API) changeSubscription(
	w http.ResponseWriter, r *http.Request, op func(ctx context.Context, showID int, userID string) error,
) {
	var req SubscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	user := auth.UserFromContext(r.Context())
	if err := op(r.Context(), req.ShowID, user.ID); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
