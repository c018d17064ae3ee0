package shared

import (
	"errors"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	original := getRuntime
	t.Cleanup(func() { getRuntime = original })

	tc := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }

			cmd, err := browserCommand("https://example.com")
			if (err != nil) != tt.wantErr {
				t.Fatalf("browserCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cmd.Args[0])
			}
			if last := cmd.Args[len(cmd.Args)-1]; last != "https://example.com" {
				t.Errorf("expected URL as last argument, got %s", last)
			}
		})
	}
}

func TestOpenBrowserRejectsInvalidURL(t *testing.T) {
	for _, target := range []string{"", "/album", "ftp://example.com", "javascript:alert(1)"} {
		if err := OpenBrowser(target); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("OpenBrowser(%q) expected ErrInvalidArgument, got %v", target, err)
		}
	}
}
