package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned for non-2xx node responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("chain %s %s: %s", strings.ToLower(e.Method), e.URL, e.Status)
	if m := e.NodeMessage(); m != "" {
		msg += ": " + m
	}
	return msg
}

// NodeMessage extracts the "message" field of a node error body, if any.
func (e *StatusError) NodeMessage() string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Body, &body) != nil {
		return ""
	}
	return body.Message
}

// IsNotFound reports whether err is a 404 from the node.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// retryable decides whether a failed read is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

// decodeError marks a response body that could not be decoded; retrying
// would not change it.
type decodeError struct {
	endpoint string
	err      error
}

func (e *decodeError) Error() string { return fmt.Sprintf("decode %s response: %v", e.endpoint, e.err) }

func (e *decodeError) Unwrap() error { return e.err }
