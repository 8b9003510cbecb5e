package gig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gig api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("gig api: status %d: %s", e.StatusCode, e.Message)
}

// UserMessage is the backend's own explanation, possibly empty
func (e *APIError) UserMessage() string {
	return e.Message
}

// Unauthorized reports a missing or expired token
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// MessageOf returns the backend's message for err, or "" when there is none
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func newAPIError(status int, contentType string, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: extractMessage(contentType, body)}
}

// extractMessage pulls a human message out of an error body. JSON bodies use
// "message" (a string or a list of strings) or "error"; HTML pages use the
// title or the first heading.
func extractMessage(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		return jsonMessage(trimmed)
	}
	if strings.Contains(contentType, "html") || trimmed[0] == '<' {
		return htmlMessage(trimmed)
	}
	return ""
}

func jsonMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := rawText(payload.Message); msg != "" {
		return msg
	}
	return rawText(payload.Error)
}

// rawText reads a JSON string or a list of strings
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1, h2, h3").First().Text())
}
