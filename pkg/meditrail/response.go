package meditrail

import (
	"bytes"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const maxBodyInMessage = 200

func decodeResponse(status int, body []byte) (*Result, error) {
	switch {
	case status >= 200 && status < 300:
		return parseResult(status, body)

	case status == http.StatusBadRequest:
		detail, err := errorDetail(status, body)
		if err != nil {
			return nil, err
		}
		msg := "Bad Request: " + detailString(detail, "Bad Request")
		return nil, newAPIError(KindBadRequest, status, msg, body)

	case status == http.StatusRequestEntityTooLarge:
		return nil, newAPIError(KindFileTooLarge, status, "File too large (max 50MB)", body)

	case status == http.StatusTooManyRequests:
		detail, err := errorDetail(status, body)
		if err != nil {
			return nil, err
		}
		msg := "Usage limit exceeded"
		if detail.IsObject() {
			if m := detail.Get("message"); m.Exists() && m.Type != gjson.Null {
				msg += ": " + m.String()
			}
		}
		return nil, newAPIError(KindUsageLimitExceeded, status, msg, body)

	case status == http.StatusInternalServerError:
		detail, err := errorDetail(status, body)
		if err != nil {
			return nil, err
		}
		msg := "Internal Server Error: " + detailString(detail, "Internal Server Error")
		return nil, newAPIError(KindServerError, status, msg, body)

	default:
		msg := fmt.Sprintf("Unexpected response: %d %s", status, http.StatusText(status))
		if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
			msg += " - " + truncateString(string(trimmed), maxBodyInMessage)
		}
		return nil, newAPIError(KindHTTP, status, msg, body)
	}
}

func parseResult(status int, body []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return nil, newAPIError(KindInvalidResponse, status, "Invalid JSON response", body)
	}
	if !gjson.ParseBytes(trimmed).IsObject() {
		return nil, newAPIError(KindInvalidResponse, status, "Invalid JSON response: expected an object", body)
	}
	return newResult(trimmed), nil
}

// errorDetail returns the "detail" field of an error body. An empty body
// yields a missing detail; a non-JSON body is an InvalidResponse.
func errorDetail(status int, body []byte) (gjson.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, newAPIError(KindInvalidResponse, status, "Invalid JSON response", body)
	}
	return gjson.GetBytes(trimmed, "detail"), nil
}

func detailString(detail gjson.Result, fallback string) string {
	switch {
	case !detail.Exists() || detail.Type == gjson.Null:
		return fallback
	case detail.Type == gjson.String:
		if detail.Str == "" {
			return fallback
		}
		return detail.Str
	default:
		return detail.Raw
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
