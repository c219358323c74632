package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apidocpdf "github.com/porticus-lab/go-apidoc-pdf"
	"github.com/porticus-lab/go-apidoc-pdf/describe"
	"github.com/porticus-lab/go-apidoc-pdf/internal/archive"
	"github.com/porticus-lab/go-apidoc-pdf/internal/config"
	"github.com/porticus-lab/go-apidoc-pdf/internal/httpclient"
	"github.com/porticus-lab/go-apidoc-pdf/internal/server"
	"github.com/porticus-lab/go-apidoc-pdf/postman"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the export HTTP API",
		Long: `Serve the export, import and description endpoints:

  POST /api/export/pdf            render {"responseData": document} to PDF
  POST /api/export/html           render the same body to HTML
  POST /api/import/postman        convert an uploaded or remote collection
  POST /api/generate-description  describe an endpoint with OpenAI
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			native := apidocpdf.NewExporter(
				apidocpdf.WithLogger(log),
				apidocpdf.WithHeading(cfg.Export.Heading),
			)
			opts := []server.Option{
				server.WithLogger(log),
				server.WithDescriber(newDescriber(cfg, log)),
				server.WithFetcher(newFetcher(cfg, log)),
			}

			if cfg.Export.Browser.Enabled {
				browser, err := apidocpdf.NewBrowserExporter(append(browserOptions(cfg.Export.Browser),
					apidocpdf.WithLogger(log),
					apidocpdf.WithHeading(cfg.Export.Heading),
				)...)
				if err != nil {
					return err
				}
				defer browser.Close()
				opts = append(opts, server.WithBrowserEngine(browser))
			}

			if a := cfg.Archive; a.Enabled {
				up, err := archive.New(archive.Config{
					Endpoint:  a.Endpoint,
					Bucket:    a.Bucket,
					AccessKey: a.AccessKey,
					SecretKey: a.SecretKey,
					UseSSL:    a.UseSSL,
					Prefix:    a.Prefix,
				}, log)
				if err != nil {
					return err
				}
				opts = append(opts, server.WithArchive(up))
			}

			srv := server.New(server.Config{
				Addr:             cfg.Server.Addr,
				ReadTimeout:      cfg.Server.ReadTimeout,
				WriteTimeout:     cfg.Server.WriteTimeout,
				ShutdownTimeout:  cfg.Server.ShutdownTimeout,
				MaxBodyBytes:     cfg.Server.MaxBodyBytes,
				Filename:         cfg.Export.Filename,
				EmptyItemsStatus: cfg.Export.EmptyItemsStatus,
				Heading:          cfg.Export.Heading,
			}, native, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func newDescriber(cfg config.Config, log *slog.Logger) *describe.Client {
	return describe.New(cfg.OpenAI.APIKey,
		describe.WithBaseURL(cfg.OpenAI.BaseURL),
		describe.WithModel(cfg.OpenAI.Model),
		describe.WithLogger(log),
		describe.WithHTTPConfig(httpclient.Config{
			RetryMax: cfg.OpenAI.MaxRetries,
			Timeout:  cfg.OpenAI.Timeout,
			Logger:   log,
		}),
	)
}

func newFetcher(cfg config.Config, log *slog.Logger) *postman.Fetcher {
	return postman.NewFetcher(cfg.Postman.APIKey,
		postman.WithBaseURL(cfg.Postman.BaseURL),
		postman.WithFetchLogger(log),
	)
}
