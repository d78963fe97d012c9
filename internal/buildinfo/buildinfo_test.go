package buildinfo

import "testing"

func setBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestShort(t *testing.T) {
	tests := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"", "", "dev"},
		{"dev", "abc1234", "abc1234"},
		{"v1.2.0", "abc1234", "v1.2.0"},
	}
	for _, tt := range tests {
		setBuild(t, tt.version, tt.commit, "unknown")
		if got := Short(); got != tt.want {
			t.Errorf("Short(%q, %q) = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestBannerAndTitle(t *testing.T) {
	setBuild(t, "v0.3.1", "abc1234", "2026-10-01")
	if got, want := Banner(), "Ready (splitkb v0.3.1)"; got != want {
		t.Fatalf("Banner = %q, want %q", got, want)
	}
	if got, want := Title(), "splitkb (v0.3.1)"; got != want {
		t.Fatalf("Title = %q, want %q", got, want)
	}
	if got, want := String(), "splitkb v0.3.1 (commit abc1234, built 2026-10-01)"; got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}
