package apidocpdf

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// downloadBrowser fetches a Chromium build into the rod cache
// (~/.cache/rod/browser) unless one is already there, and returns the
// executable path.
func downloadBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("apidocpdf: downloading browser: %w", err)
	}
	return path, nil
}
