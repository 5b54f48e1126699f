package repo

import "testing"

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		want     string
	}{
		{"empty collection", nil, "P", "P0001"},
		{"max based not count based", []string{"P0001", "P0003"}, "P", "P0004"},
		{"ignores unparseable suffixes", []string{"P0002", "PXXXX"}, "P", "P0003"},
		{"ignores other prefixes", []string{"D0009", "P0001"}, "P", "P0002"},
		{"case insensitive", []string{"p0005"}, "P", "P0006"},
		{"multi letter prefix", []string{"HR0012"}, "HR", "HR0013"},
		{"grows past the padding", []string{"P9999"}, "P", "P10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextID(tt.existing, tt.prefix, 4); got != tt.want {
				t.Errorf("NextID(%v, %q) = %q, want %q", tt.existing, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
		want   bool
	}{
		{"P0001", "P", true},
		{"p0001", "P", true},
		{" P0001 ", "P", true},
		{"P001", "P", false},
		{"P00001", "P", false},
		{"PA001", "P", false},
		{"D0001", "P", false},
		{"HR0001", "HR", true},
		{"", "P", false},
	}

	for _, tt := range tests {
		if got := ValidID(tt.id, tt.prefix, 4); got != tt.want {
			t.Errorf("ValidID(%q, %q, 4) = %v, want %v", tt.id, tt.prefix, got, tt.want)
		}
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID("  ms0042 "); got != "MS0042" {
		t.Errorf("NormalizeID = %q, want MS0042", got)
	}
}
