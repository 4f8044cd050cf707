package service

import "testing"

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00", "0 0 9 * * *"},
		{"23:59", "0 59 23 * * *"},
		{"0:5", "0 5 0 * * *"},
	}
	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if err != nil {
			t.Errorf("buildDailySpec(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "9", "24:00", "12:60", "aa:bb", "12:00:00"} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Errorf("buildDailySpec(%q): expected error", bad)
		}
	}
}
