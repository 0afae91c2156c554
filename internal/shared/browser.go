package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand returns the program and arguments that open url on goos.
func browserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Used by `serve --open` to land on the front end once the server is listening.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
