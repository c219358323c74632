package apidocpdf

import (
	"log/slog"
	"time"

	"github.com/porticus-lab/go-apidoc-pdf/encode"
	"github.com/porticus-lab/go-apidoc-pdf/layout"
)

// config holds the settings shared by both export engines.
type config struct {
	logger     *slog.Logger
	now        func() time.Time
	heading    string
	dateLayout string
	compress   bool
	creator    string

	// measurer builds a fresh Measurer for every render.
	measurer func() layout.Measurer

	// browser engine only
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
}

func defaultConfig() config {
	return config{
		logger:     slog.Default(),
		now:        time.Now,
		heading:    layout.DefaultHeading,
		dateLayout: layout.DefaultDateLayout,
		compress:   true,
		creator:    "go-apidoc-pdf",
		measurer:   func() layout.Measurer { return encode.NewMetrics() },
		timeout:    30 * time.Second,
		headless:   "new",
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures an [Exporter] or a [BrowserExporter].
type Option func(*config)

// WithLogger sets the logger used to report failed exports.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock whose time is printed in page footers.
// Combined with a fixed clock, exports are byte-for-byte reproducible.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHeading replaces the banner text on the first page.
func WithHeading(s string) Option {
	return func(c *config) {
		if s != "" {
			c.heading = s
		}
	}
}

// WithDateLayout sets the time layout of the footer date.
// Defaults to [layout.DefaultDateLayout].
func WithDateLayout(s string) Option {
	return func(c *config) {
		if s != "" {
			c.dateLayout = s
		}
	}
}

// WithCompression toggles Flate compression of page content.
// Compression is on by default.
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// WithChromePath sets the path to the Chrome or Chromium executable used by
// [BrowserExporter]. By default standard locations are searched.
func WithChromePath(path string) Option {
	return func(c *config) {
		c.chromePath = path
	}
}

// WithTimeout bounds a single browser export. Defaults to 30 seconds.
// A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when
// running as root inside containers.
func WithNoSandbox() Option {
	return func(c *config) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a Chromium build on first use when no
// executable path is configured.
func WithAutoDownload() Option {
	return func(c *config) {
		c.autoDownload = true
	}
}
