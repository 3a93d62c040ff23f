package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// genericMessage is shown when the service returns no parsable error body.
const genericMessage = "the entity service rejected the request"

// errorBody is the service's structured error shape. Only message is relied
// upon; anything else in the body is ignored.
type errorBody struct {
	Message string `json:"message"`
}

// Error is a failed entity service call. Message is always safe to show to
// the user: it is either the service's own message or a generic fallback.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// UserMessage extracts the human-readable message from any error chain that
// contains an *Error. Other failures (network, decode) get the generic
// fallback; the presentation layer never shows raw wire errors.
func UserMessage(err error) string {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return genericMessage
}

// decodeError reads a non-2xx response into an *Error, falling back to the
// generic message when the body is missing, unparsable, or has no message.
func decodeError(resp *http.Response) error {
	out := &Error{StatusCode: resp.StatusCode, Message: genericMessage}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return out
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		out.Message = body.Message
	}
	return out
}
