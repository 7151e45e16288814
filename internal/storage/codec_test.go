package storage

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompletedDaysCodec(t *testing.T) {
	encoded, err := EncodeCompletedDays(nil)
	if err != nil {
		t.Fatalf("EncodeCompletedDays(nil) error = %v", err)
	}
	if encoded != "{}" {
		t.Errorf("EncodeCompletedDays(nil) = %q, want %q", encoded, "{}")
	}

	days := map[string]string{"2024-01-01": "completed", "2024-01-03": "photo"}
	encoded, err = EncodeCompletedDays(days)
	if err != nil {
		t.Fatalf("EncodeCompletedDays() error = %v", err)
	}
	decoded, err := DecodeCompletedDays([]byte(encoded))
	if err != nil {
		t.Fatalf("DecodeCompletedDays() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, days) {
		t.Errorf("DecodeCompletedDays() = %v, want %v", decoded, days)
	}
}

func TestDecodeCompletedDaysNeverNil(t *testing.T) {
	for _, raw := range []string{"", "null", "{}"} {
		days, err := DecodeCompletedDays([]byte(raw))
		if err != nil {
			t.Fatalf("DecodeCompletedDays(%q) error = %v", raw, err)
		}
		if days == nil {
			t.Errorf("DecodeCompletedDays(%q) returned nil map", raw)
		}
	}
}

func TestDecodeCompletedDaysInvalid(t *testing.T) {
	if _, err := DecodeCompletedDays([]byte(`["2024-01-01"]`)); err == nil {
		t.Error("DecodeCompletedDays() expected error for a list")
	}
}

func TestFrequencyCodec(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"absent", nil, nil},
		{"empty", []string{}, nil},
		{"daily", []string{"daily"}, []string{"daily"}},
		{"weekdays keep order", []string{"Sun", "Mon"}, []string{"Sun", "Mon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeFrequency(tt.in)
			if err != nil {
				t.Fatalf("EncodeFrequency() error = %v", err)
			}
			got, err := DecodeFrequency([]byte(encoded))
			if err != nil {
				t.Fatalf("DecodeFrequency() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("round trip = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFailureWrapsBothErrors(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Failure("put habit", cause)

	if !errors.Is(err, ErrStorageFailure) {
		t.Error("Failure() should match ErrStorageFailure")
	}
	if !errors.Is(err, cause) {
		t.Error("Failure() should keep the driver error in the chain")
	}
}
