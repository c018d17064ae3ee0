package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand builds the platform command that opens target in the default browser.
func browserCommand(target string) (*exec.Cmd, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// OpenBrowser opens the default system browser to the specified absolute http(s) URL.
func OpenBrowser(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: not an absolute http(s) URL: %q", ErrInvalidArgument, target)
	}

	cmd, err := browserCommand(u.String())
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
