package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// StatusError is returned for any non-2xx API response.
type StatusError struct {
	Status  int
	Method  string
	URL     string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// newStatusError extracts the error message from either API flavor.
// Cloud replies {"error":{"message":...}}, Server replies
// {"errors":[{"message":...}]}.
func newStatusError(method, url string, status int, body []byte) *StatusError {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = gjson.GetBytes(body, "errors.0.message").String()
	}
	return &StatusError{Status: status, Method: method, URL: url, Message: msg}
}
