// Package navigate hands a resolved destination to the viewer.
package navigate

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/sqlainsaad5/eventify-bell/internal/routing"
)

// URL joins the web app's base URL and a destination.
func URL(appBaseURL string, d routing.Destination) string {
	return strings.TrimRight(appBaseURL, "/") + d.String()
}

// ClipboardNavigator turns destinations into absolute app URLs and copies them
// to the system clipboard. A terminal cannot open the web app itself, so the
// URL is also returned for display.
type ClipboardNavigator struct {
	baseURL string
	logger  zerolog.Logger
	write   func(string) error
}

// NewClipboardNavigator creates a navigator for the app served at baseURL.
func NewClipboardNavigator(baseURL string, logger zerolog.Logger) *ClipboardNavigator {
	return &ClipboardNavigator{
		baseURL: baseURL,
		logger:  logger.With().Str("component", "navigator").Logger(),
		write:   clipboard.WriteAll,
	}
}

// Navigate returns the URL for d. Clipboard failures (no display, missing
// xclip) are logged and do not fail the navigation.
func (n *ClipboardNavigator) Navigate(d routing.Destination) (string, error) {
	u := URL(n.baseURL, d)
	if clipboard.Unsupported {
		n.logger.Debug().Str("url", u).Msg("clipboard unsupported")
		return u, nil
	}
	if err := n.write(u); err != nil {
		n.logger.Warn().Err(err).Str("url", u).Msg("copying url to clipboard")
		return u, nil
	}
	n.logger.Info().Str("url", u).Msg("url copied to clipboard")
	return u, nil
}
