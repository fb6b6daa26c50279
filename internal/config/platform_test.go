package config

import "testing"

func TestNormalizePlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "macos alias", in: "macOS", want: "darwin"},
		{name: "osx alias", in: "osx", want: "darwin"},
		{name: "win32 alias", in: "win32", want: "windows"},
		{name: "goos unchanged", in: "linux", want: "linux"},
		{name: "trimmed", in: " darwin ", want: "darwin"},
		{name: "empty unchanged", in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePlatform(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePlatform(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
