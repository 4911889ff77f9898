package expiry

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	entered := date(2025, time.September, 7)
	explicit := date(2025, time.September, 5)

	tests := []struct {
		name        string
		explicit    *time.Time
		defaultDays int
		wantExpiry  time.Time
		wantSource  Source
	}{
		{"ExplicitWins", &explicit, 10, explicit, SourceUser},
		{"CatalogDefault", nil, 10, date(2025, time.September, 17), SourceDefault},
		{"FallbackSevenDays", nil, 0, date(2025, time.September, 14), SourceDefault},
		{"NegativeDefaultFallsBack", nil, -5, date(2025, time.September, 14), SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source, err := Resolve(entered, tt.explicit, tt.defaultDays)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !got.Equal(tt.wantExpiry) {
				t.Errorf("expiry: got %v, want %v", got, tt.wantExpiry)
			}
			if source != tt.wantSource {
				t.Errorf("source: got %s, want %s", source, tt.wantSource)
			}
		})
	}
}

func TestResolveInvalidTimestamps(t *testing.T) {
	if _, _, err := Resolve(time.Time{}, nil, 7); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp for zero entry time, got %v", err)
	}

	var zero time.Time
	if _, _, err := Resolve(date(2025, time.September, 7), &zero, 7); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp for zero explicit expiry, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	now := date(2025, time.September, 8)

	tests := []struct {
		name      string
		expiresAt time.Time
		threshold int
		want      Freshness
	}{
		{"WellBeforeExpiry", date(2025, time.September, 20), 3, Fresh},
		{"JustAboveThreshold", date(2025, time.September, 12), 3, Fresh},
		{"AtThreshold", date(2025, time.September, 11), 3, ExpiringSoon},
		{"OneDayLeft", date(2025, time.September, 9), 3, ExpiringSoon},
		{"ExpiresToday", date(2025, time.September, 8), 3, Expired},
		{"AlreadyExpired", date(2025, time.September, 5), 3, Expired},
		{"NegativeThresholdUsesDefault", date(2025, time.September, 10), -1, ExpiringSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(now, tt.expiresAt, tt.threshold)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyInvalidTimestamp(t *testing.T) {
	if _, err := Classify(time.Time{}, date(2025, time.September, 8), 3); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestDaysRemainingIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2025, time.September, 8, 23, 59, 0, 0, time.UTC)
	exp := time.Date(2025, time.September, 9, 0, 1, 0, 0, time.UTC)

	if got := DaysRemaining(now, exp); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}
