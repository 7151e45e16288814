package storage

import (
	"encoding/json"
	"fmt"
)

// EncodeCompletedDays serializes a completion map for a text column.
// A nil map is stored as an empty object.
func EncodeCompletedDays(days map[string]string) (string, error) {
	if days == nil {
		days = map[string]string{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("failed to encode completed days: %w", err)
	}
	return string(b), nil
}

// DecodeCompletedDays is the inverse of EncodeCompletedDays. It never
// returns a nil map.
func DecodeCompletedDays(raw []byte) (map[string]string, error) {
	days := map[string]string{}
	if len(raw) == 0 {
		return days, nil
	}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("failed to decode completed days: %w", err)
	}
	if days == nil {
		days = map[string]string{}
	}
	return days, nil
}

func EncodeFrequency(frequency []string) (string, error) {
	if frequency == nil {
		frequency = []string{}
	}
	b, err := json.Marshal(frequency)
	if err != nil {
		return "", fmt.Errorf("failed to encode frequency: %w", err)
	}
	return string(b), nil
}

// DecodeFrequency returns nil for an empty list so an absent frequency
// round-trips as absent.
func DecodeFrequency(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var frequency []string
	if err := json.Unmarshal(raw, &frequency); err != nil {
		return nil, fmt.Errorf("failed to decode frequency: %w", err)
	}
	if len(frequency) == 0 {
		return nil, nil
	}
	return frequency, nil
}
