package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/desertthunder/showtrack/internal/shared"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ShowListRequest holds the listing filters from the query string.
type ShowListRequest struct {
	Genre    string `validate:"omitempty,max=100"`
	Alphabet string `validate:"omitempty,alpha,max=26"`
}

// AddShowRequest is the body of POST /api/shows.
type AddShowRequest struct {
	ShowName string `json:"showName" validate:"required,max=200"`
}

// CredentialsRequest is the body of login and signup.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// SubscriptionRequest is the body of subscribe and unsubscribe.
type SubscriptionRequest struct {
	ShowID int `json:"showId" validate:"required,gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := readJSON(w, r, dst); err != nil {
		return err
	}
	return validateRequest(dst)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", shared.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", shared.ErrInvalidInput)
	}
	return nil
}

// decodeCredentials accepts either a JSON body or a URL-encoded form.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (*CredentialsRequest, error) {
	var req CredentialsRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: malformed form body", shared.ErrInvalidInput)
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	} else if err := readJSON(w, r, &req); err != nil {
		return nil, err
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// validateRequest runs struct validation and reports the first failing field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Errorf("%w: %s failed %q validation", shared.ErrInvalidInput, fieldName(fe), fe.Tag())
	}
	return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
