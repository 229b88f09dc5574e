// Package normalize converts the backend's inconsistent payloads into canonical records.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// Normalizer resolves link records against the public short-link base URL
type Normalizer struct {
	shortLinkBase string
}

// New creates a Normalizer; shortLinkBase is used to build short URLs the backend omits
func New(shortLinkBase string) *Normalizer {
	return &Normalizer{
		shortLinkBase: strings.TrimRight(shortLinkBase, "/"),
	}
}

// Link resolves the canonical view of a single raw record
func (n *Normalizer) Link(raw domain.RawLink) domain.Link {
	link := domain.Link{
		Code:      ResolveCode(raw),
		LongURL:   firstNonEmpty(raw.URL, raw.LongURL, domain.Placeholder),
		CreatedAt: parseTime(raw.CreatedAt),
	}

	if expires := parseTime(raw.ExpiresAt); !expires.IsZero() {
		link.ExpiresAt = &expires
	}

	switch {
	case raw.ShortURL != "":
		link.ShortURL = raw.ShortURL
	case link.HasCode() && n.shortLinkBase != "":
		link.ShortURL = n.shortLinkBase + "/" + link.Code
	}

	return link
}

// Links decodes a list payload. A null body is an empty list, and elements that
// are not objects degrade to placeholder links.
func (n *Normalizer) Links(body []byte) ([]domain.Link, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("failed to decode link list: %w", err)
	}

	links := make([]domain.Link, 0, len(elements))
	for _, element := range elements {
		links = append(links, n.Link(decodeRawLink(element)))
	}
	return links, nil
}

// ResolveCode applies the code precedence: code, short_code, then the last path
// segment of short_url, then the placeholder.
func ResolveCode(raw domain.RawLink) string {
	if raw.Code != "" {
		return raw.Code
	}
	if raw.ShortCode != "" {
		return raw.ShortCode
	}
	if segment := lastSegment(raw.ShortURL); segment != "" {
		return segment
	}
	return domain.Placeholder
}

// CountRecords returns the number of elements of an array payload, or 0 for anything else
func CountRecords(body []byte) int {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return 0
	}
	return len(elements)
}

func decodeRawLink(element json.RawMessage) domain.RawLink {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil {
		return domain.RawLink{}
	}

	return domain.RawLink{
		Code:      stringField(fields, "code"),
		ShortCode: stringField(fields, "short_code"),
		ShortURL:  stringField(fields, "short_url"),
		URL:       stringField(fields, "url"),
		LongURL:   stringField(fields, "long_url"),
		CreatedAt: stringField(fields, "created_at"),
		ExpiresAt: stringField(fields, "expires_at"),
	}
}

// stringField reads a string or number field; anything else counts as absent
func stringField(fields map[string]json.RawMessage, key string) string {
	value, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}

	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.UseNumber()
	var number json.Number
	if err := decoder.Decode(&number); err == nil {
		return number.String()
	}
	return ""
}

func lastSegment(shortURL string) string {
	if shortURL == "" {
		return ""
	}
	idx := strings.LastIndex(shortURL, "/")
	return shortURL[idx+1:]
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC()
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
