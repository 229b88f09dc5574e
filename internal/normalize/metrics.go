package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// Metrics flattens a metrics payload into domain/count pairs. An array of
// {domain, count} objects passes through unchanged; an object mapping domain to
// count is converted keeping the payload's key order. Any other JSON value
// yields an empty list.
func Metrics(body []byte) ([]domain.DomainCount, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []domain.DomainCount{}, nil
	}

	switch trimmed[0] {
	case '[':
		var counts []domain.DomainCount
		if err := json.Unmarshal(trimmed, &counts); err != nil {
			return nil, fmt.Errorf("failed to decode metrics list: %w", err)
		}
		return counts, nil
	case '{':
		return flattenObject(trimmed)
	default:
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to decode metrics: invalid JSON")
		}
		return []domain.DomainCount{}, nil
	}
}

func flattenObject(body []byte) ([]domain.DomainCount, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode metrics object: %w", err)
	}

	counts := []domain.DomainCount{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode metrics key: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected metrics key %v", keyToken)
		}

		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode count for %q: %w", key, err)
		}

		counts = append(counts, domain.DomainCount{
			Domain: key,
			Count:  toCount(value),
		})
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode metrics object: %w", err)
	}

	return counts, nil
}

// toCount accepts numbers and numeric strings; anything else counts as zero
func toCount(value json.RawMessage) int64 {
	var f float64
	if err := json.Unmarshal(value, &f); err == nil {
		return clampCount(f)
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return clampCount(parsed)
		}
	}
	return 0
}

func clampCount(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}
