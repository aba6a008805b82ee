package numerador

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		year   int
		suffix int
		want   string
	}{
		{2025, 1, "DESP-2025-0001"},
		{2025, 7, "DESP-2025-0007"},
		{2024, 9999, "DESP-2024-9999"},
		{2025, 10000, "DESP-2025-10000"}, // overflow widens, never truncates
	}

	for _, tt := range tests {
		if got := Format(tt.year, tt.suffix); got != tt.want {
			t.Errorf("Format(%d, %d) = %q, want %q", tt.year, tt.suffix, got, tt.want)
		}
	}
}

func TestParseSuffix(t *testing.T) {
	tests := []struct {
		numero string
		want   int
		ok     bool
	}{
		{"DESP-2025-0007", 7, true},
		{"DESP-2025-0001", 1, true},
		{"DESP-2024-9999", 9999, true},
		{"DESP-2025-10000", 10000, true},
		{"DESP-2025-", 0, false},
		{"DESP-2025-00x7", 0, false},
		{"EXPO-2025-0007", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
		{"DESP-2025-0007-extra", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseSuffix(tt.numero)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSuffix(%q) = (%d, %v), want (%d, %v)", tt.numero, got, ok, tt.want, tt.ok)
		}
	}
}

func TestYearPrefix(t *testing.T) {
	if got := YearPrefix(2025); got != "DESP-2025-" {
		t.Errorf("YearPrefix(2025) = %q", got)
	}
}
