package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindGeneration Kind = "generation"
	KindPayment    Kind = "payment"
	KindUnknown    Kind = "unknown"
)

const genericMessage = "An unexpected error occurred. Please try again."

// APIError is a non-2xx answer from the backend or the identity provider.
type APIError struct {
	Status  int
	Message string
	// Code is the provider error code, when the body carried one.
	Code string
	Kind Kind
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

func classify(status int, fallback Kind) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest:
		return KindValidation
	case status == http.StatusPaymentRequired:
		return KindPayment
	case fallback != "":
		return fallback
	default:
		return KindUnknown
	}
}

var authMessages = map[string]string{
	"invalid-email":         "Please enter a valid email address.",
	"email_address_invalid": "Please enter a valid email address.",
	"user-not-found":        "Invalid credentials. Please check your email and password.",
	"user_not_found":        "Invalid credentials. Please check your email and password.",
	"invalid-credential":    "Invalid credentials. Please check your email and password.",
	"invalid_credentials":   "Invalid credentials. Please check your email and password.",
	"wrong-password":        "Incorrect password. Please try again.",
	"email-already-in-use":  "An account already exists with this email address.",
	"email_exists":          "An account already exists with this email address.",
	"user_already_exists":   "An account already exists with this email address.",
	"weak-password":         "Password should be at least 6 characters.",
	"weak_password":         "Password should be at least 6 characters.",
}

// FriendlyMessage turns any error into text fit for an end user. Known auth
// codes get a fixed message; everything else keeps its own message.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		code := strings.TrimPrefix(apiErr.Code, "auth/")
		if msg, ok := authMessages[code]; ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return genericMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericMessage
}
