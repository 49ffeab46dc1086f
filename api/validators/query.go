package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
)

// ParseQueryInt reads an integer query parameter with a default and bounds.
func ParseQueryInt(r *http.Request, name string, fallback, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" must be an integer")
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" is out of range")
	}
	return value, nil
}

// ParseQueryFloat reads an optional non-negative float query parameter,
// returning nil when absent.
func ParseQueryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a number")
	}
	if value < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must not be negative")
	}
	return &value, nil
}

// ParseQueryBool reads a boolean query parameter, defaulting when absent.
func ParseQueryBool(r *http.Request, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a boolean")
	}
	return value, nil
}
