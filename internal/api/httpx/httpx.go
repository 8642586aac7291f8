package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/baharkarakas/blog-backend/internal/apperr"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// StatusOf decodes an error kind into its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err using its kind. Internal causes are never sent.
func WriteAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := "Server error"
	var e *apperr.Error
	if kind != apperr.KindInternal && errors.As(err, &e) {
		msg = e.Error()
	}
	WriteError(w, StatusOf(kind), kind.String(), msg, nil)
}

const maxBody = 1 << 20

// DecodeJSON reads one JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperr.InvalidInput("Request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.InvalidInput("Request body is required")
		}
		return apperr.InvalidInputWrap("Invalid JSON body", err)
	}
	return nil
}

// QueryInt returns the integer query parameter key, or def when it is missing
// or not an integer. Numbers too large for an int saturate to math.MaxInt or
// math.MinInt; range checks belong to the caller.
func QueryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return def
	}
	return n
}

// FlexibleID accepts an id sent either as a JSON number or a JSON string and
// keeps its textual form for validation.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	*f = FlexibleID(b)
	return nil
}
