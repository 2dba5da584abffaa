package ui

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// openURLFn is the active browser-open implementation. Tests replace it via
// StubPlatformActions to prevent side effects.
var openURLFn = openURLImpl

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error { return openURLFn(url) }

// StubPlatformActions replaces the browser launcher with record and returns a
// restore function. A nil record discards the URLs.
func StubPlatformActions(record func(string)) (restore func()) {
	orig := openURLFn
	openURLFn = func(u string) error {
		if record != nil {
			record(u)
		}
		return nil
	}
	return func() { openURLFn = orig }
}

// ResolveLink resolves a suggestion href against the endpoint that returned it.
func ResolveLink(endpoint, href string) (string, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// openURLImpl starts the platform browser. The child process outlives the
// caller, so it runs on a detached context.
func openURLImpl(url string) error {
	ctx := context.Background()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("xdg-open not found (install xdg-utils)")
		}
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
