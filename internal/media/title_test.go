package media

import "testing"

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		path     string
		expected string
	}{
		{"/staging/movies/the.matrix.1999.mkv", "The Matrix 1999"},
		{"/staging/movies/blade_runner-final_cut.mp4", "Blade Runner Final Cut"},
		{"/staging/shows/severance s01e02.mkv", "Severance S01e02"},
		{"plain.mkv", "Plain"},
		{"", ""},
		{"...mkv", ""},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.path); got != tc.expected {
			t.Errorf("DeriveTitle(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}
