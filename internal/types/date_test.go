package types

import (
	"testing"
	"time"
)

func TestCurrentBillingPeriod_Monthly(t *testing.T) {
	tests := []struct {
		name      string
		anchorDay int
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "mid-month anchor, now after anchor",
			anchorDay: 15,
			now:       time.Date(2026, time.January, 20, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "mid-month anchor, now before anchor",
			anchorDay: 15,
			now:       time.Date(2026, time.January, 10, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "now exactly on boundary starts the new period",
			anchorDay: 15,
			now:       time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "anchor 31 clamps in February",
			anchorDay: 31,
			now:       time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "anchor 31 restores to 31 after clamped February",
			anchorDay: 31,
			now:       time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "anchor 31 clamps to 29 in leap February",
			anchorDay: 31,
			now:       time.Date(2028, time.February, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2028, time.January, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "anchor 1 across year boundary",
			anchorDay: 1,
			now:       time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "anchor 30 clamps only in February",
			anchorDay: 30,
			now:       time.Date(2026, time.April, 29, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "invalid anchor day",
			anchorDay: 0,
			now:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantErr:   true,
		},
		{
			name:      "anchor day above 31",
			anchorDay: 32,
			now:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := CurrentBillingPeriod(tt.anchorDay, tt.now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
			if !start.Before(end) {
				t.Errorf("period start %v is not before end %v", start, end)
			}
		})
	}
}

func TestFormatPeriodKey(t *testing.T) {
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got := FormatPeriodKey(start); got != "20260115" {
		t.Errorf("FormatPeriodKey() = %q, want %q", got, "20260115")
	}
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:   "jan 31 plus one month clamps to feb 28",
			start:  time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "dec plus two months wraps the year",
			start:  time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
			months: 2,
			want:   time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "plain day addition",
			start: time.Date(2026, time.March, 1, 12, 30, 0, 0, time.UTC),
			days:  10,
			want:  time.Date(2026, time.March, 11, 12, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
