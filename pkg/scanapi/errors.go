package scanapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// unknownError is the last-resort message when nothing usable can be
// extracted from a failure.
const unknownError = "Unknown error"

// APIError is a normalized failure from the scan engine. Message is always a
// human-readable string suitable for direct display.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return unknownError
	}
	return e.Message
}

// errorBody covers the structured error shapes the engine emits: FastAPI
// uses "detail", other services use "message" or "error".
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
}

// decodeAPIError turns a non-2xx response into an APIError, preferring the
// structured detail field, then message, then error, then the HTTP status.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case len(eb.Detail) > 0:
			// detail is usually a string but can be a validation object;
			// fall back to its raw text when it isn't a string.
			var s string
			if json.Unmarshal(eb.Detail, &s) == nil {
				apiErr.Message = s
			} else {
				apiErr.Message = string(eb.Detail)
			}
		case eb.Message != "":
			apiErr.Message = eb.Message
		case eb.Err != "":
			apiErr.Message = eb.Err
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = unknownError
	}
	return apiErr
}

// normalizeTransport maps connection-level failures to stable messages.
func normalizeTransport(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Message: "Request timed out"}
	case errors.Is(err, context.Canceled):
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return &APIError{Message: "Scan engine is unreachable"}
	}
	// url.Error values are verbose; deadline errors inside them surface as
	// a timeout flag rather than the sentinel.
	if strings.Contains(msg, "Client.Timeout exceeded") {
		return &APIError{Message: "Request timed out"}
	}
	return &APIError{Message: msg}
}

// Normalize extracts the display message from any error produced by this
// package. It never returns an empty string.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownError
}
