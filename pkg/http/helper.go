package http

import (
	"net/http"
	"spacehub/pkg/config"
	apperrors "spacehub/pkg/errors"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// ExtractLimit reads ?limit= and clamps it to maxLimit.
func ExtractLimit(r *http.Request, maxLimit int) (int, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	return config.NormalizeListLimit(limit, maxLimit), nil
}

// ParseDate parses a YYYY-MM-DD query parameter as midnight UTC. Missing
// parameters return a nil time.
func ParseDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " format, must be YYYY-MM-DD")
	}
	return &d, nil
}

// ParseTime parses an RFC3339 query parameter. Missing parameters return nil.
func ParseTime(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " format, must be RFC3339")
	}
	return &t, nil
}

func ParseBool(r *http.Request, name string) (*bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return &b, nil
}
