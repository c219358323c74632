package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apidocpdf "github.com/porticus-lab/go-apidoc-pdf"
)

type exportOptions struct {
	engine      string
	out         string
	outDir      string
	heading     string
	concurrency int
	noCompress  bool
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <input>...",
		Short: "Render documents or Postman collections to PDF",
		Long: `Render one or more inputs to PDF. An input is a normalized document
(JSON or YAML), an export request body {"responseData": ...}, or a Postman
collection.

A single input is written to --out, or to stdout when stdout is not a
terminal. Several inputs are rendered concurrently into --out-dir.`,
		Example: `  apidoc export collection.json -o docs.pdf
  apidoc export --out-dir pdf/ a.json b.json c.yaml
  apidoc export --engine browser doc.json > docs.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.engine, "engine", "native", "render engine (native, browser)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file for a single input")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory for several inputs")
	cmd.Flags().StringVar(&opts.heading, "heading", "", "banner text on the first page")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "documents rendered at once")
	cmd.Flags().BoolVar(&opts.noCompress, "no-compress", false, "write uncompressed content streams")
	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts exportOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	heading := opts.heading
	if heading == "" {
		heading = cfg.Export.Heading
	}
	common := []apidocpdf.Option{
		apidocpdf.WithLogger(log),
		apidocpdf.WithHeading(heading),
	}

	var engine apidocpdf.Engine
	switch opts.engine {
	case "native", "":
		engine = apidocpdf.NewExporter(append(common, apidocpdf.WithCompression(!opts.noCompress))...)
	case "browser":
		b, err := apidocpdf.NewBrowserExporter(append(browserOptions(cfg.Export.Browser), common...)...)
		if err != nil {
			return err
		}
		defer b.Close()
		engine = b
	default:
		return fmt.Errorf("unknown engine %q", opts.engine)
	}

	ctx := cmd.Context()
	if len(args) == 1 && opts.outDir == "" {
		return exportOne(ctx, engine, args[0], opts.out, cmd.OutOrStdout())
	}
	if opts.out != "" {
		return errors.New("--out takes a single input; use --out-dir")
	}
	if opts.outDir == "" {
		return errors.New("several inputs need --out-dir")
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(max(opts.concurrency, 1))
	for _, in := range args {
		p.Go(func(ctx context.Context) error {
			dst := filepath.Join(opts.outDir, pdfName(in))
			res, err := render(ctx, engine, in)
			if err != nil {
				return err
			}
			if err := res.WriteToFile(dst, 0o644); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%d pages)\n", in, dst, res.Pages())
			return nil
		})
	}
	return p.Wait()
}

func exportOne(ctx context.Context, engine apidocpdf.Engine, in, out string, stdout io.Writer) error {
	if out == "" && isTerminal(stdout) {
		return errors.New("refusing to write PDF to a terminal; use --out or redirect stdout")
	}
	res, err := render(ctx, engine, in)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = res.WriteTo(stdout)
		return err
	}
	return res.WriteToFile(out, 0o644)
}

func render(ctx context.Context, engine apidocpdf.Engine, in string) (*apidocpdf.Result, error) {
	doc, err := readDocument(in)
	if err != nil {
		return nil, err
	}
	res, err := engine.Export(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	return res, nil
}

// pdfName maps an input path to its output file name.
func pdfName(in string) string {
	base := filepath.Base(in)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
