package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermission       = errors.New("permission denied")
	ErrUnauthenticated  = errors.New("login required")
	ErrBanned           = errors.New("your account is banned")
	ErrIntegrity        = errors.New("bad request")
	ErrAlreadyPurchased = errors.New("you have already purchased this post")
	ErrInsufficientPts  = errors.New("you do not have enough points")
	ErrNotPaywalled     = errors.New("this post is not paywalled")
	ErrOwnPost          = errors.New("you own this post")
	ErrFollowSelf       = errors.New("you cannot follow yourself")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrBadCredentials   = errors.New("invalid username or password")
	ErrUnexpected       = errors.New("An error occurred")
)

// ValidationError carries per-field messages for the form layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, name := range sortedKeys(e.Fields) {
		msgs = append(msgs, e.Fields[name])
	}
	return strings.Join(msgs, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError is a business-rule refusal that leaves state untouched.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string { return e.Err.Error() }
func (e *ConflictError) Unwrap() error { return e.Err }

var statusMap = map[error]int{
	ErrNotFound:         http.StatusNotFound,
	ErrPermission:       http.StatusForbidden,
	ErrUnauthenticated:  http.StatusBadRequest,
	ErrBanned:           http.StatusForbidden,
	ErrIntegrity:        http.StatusBadRequest,
	ErrAlreadyPurchased: http.StatusBadRequest,
	ErrInsufficientPts:  http.StatusBadRequest,
	ErrNotPaywalled:     http.StatusBadRequest,
	ErrOwnPost:          http.StatusBadRequest,
	ErrFollowSelf:       http.StatusBadRequest,
	ErrUsernameTaken:    http.StatusBadRequest,
	ErrBadCredentials:   http.StatusBadRequest,
}

// StatusOf maps a service error to the HTTP status a page handler should use.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	for target, code := range statusMap {
		if errors.Is(err, target) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// PublicMessage is what a user may see for err; anything unclassified is generic.
func PublicMessage(err error) string {
	if StatusOf(err) == http.StatusInternalServerError {
		return ErrUnexpected.Error()
	}
	return err.Error()
}

// FromValidator converts validator output into a ValidationError.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fieldName(fe.Field())] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("choose at least %s %s", fe.Param(), field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "number":
		return fmt.Sprintf("%s must contain digits only", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func fieldName(field string) string {
	names := map[string]string{
		"Title":      "title",
		"Content":    "content",
		"Categories": "categories",
		"Hashtags":   "hashtags",
		"Mode":       "mode",
		"Status":     "status",
		"Username":   "username",
		"Password":   "password",
		"Email":      "email",
		"FirstName":  "first name",
		"LastName":   "last name",
		"AvatarLink": "avatar link",
		"Old":        "old password",
		"New":        "new password",
		"Reason":     "reason",
		"PostID":     "post",
	}
	if name, ok := names[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
