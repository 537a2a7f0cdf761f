package seafile

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"6.3.4", "6.3.4", 0},
		{"6.3.4", "6.10.0", -1},
		{"7.0.0", "6.9.9", 1},
		{"v5.1.0", "5.1.0", 0},
		{"garbage", "1.0.0", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSupportedWithServerVersion(t *testing.T) {
	tests := []struct {
		server, min string
		want        bool
	}{
		{"5.1.0", MinVersionGroupMembers, true},
		{"6.0.1", MinVersionGroupMembers, true},
		{"5.0.9", MinVersionGroupMembers, false},
		{"", MinVersionGroupMembers, false},
		{"not-a-version", MinVersionGroupMembers, false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := SupportedWithServerVersion(tt.server, tt.min); got != tt.want {
			t.Errorf("SupportedWithServerVersion(%q, %q) = %v, want %v", tt.server, tt.min, got, tt.want)
		}
	}
}
