package gateway

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a local precondition failure (empty title, no files
// selected). It is raised before any network call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NetworkError reports a gateway call that did not complete: the server never
// produced a response. Retrying is left to the user.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a failure status from the server, optionally carrying
// structured field-level validation messages.
type ServerError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *ServerError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("server rejected request (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected request (status %d): %s: %s", e.Status, e.Message, joinFields(e.Fields))
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

// UserMessage renders err for display. Validation and server rejections get
// their specific message, with field errors joined into one line; network
// failures get a generic retry prompt.
func UserMessage(err error) string {
	var (
		validation *ValidationError
		network    *NetworkError
		server     *ServerError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Msg
	case errors.As(err, &server):
		if len(server.Fields) > 0 {
			return server.Message + ": " + joinFields(server.Fields)
		}
		return server.Message
	case errors.As(err, &network):
		return "could not reach the server, please try again"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
