package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/porticus-lab/go-apidoc-pdf/internal/pdf"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect PDF files",
	}
	cmd.AddCommand(newInspectInfoCommand(), newInspectTextCommand())
	return cmd
}

type pageSize struct {
	Page   int     `json:"page" yaml:"page"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Rotate int     `json:"rotate,omitempty" yaml:"rotate,omitempty"`
}

type fileInfo struct {
	File    string            `json:"file" yaml:"file"`
	Version string            `json:"version" yaml:"version"`
	Pages   int               `json:"pages" yaml:"pages"`
	Info    map[string]string `json:"info,omitempty" yaml:"info,omitempty"`
	Sizes   []pageSize        `json:"sizes" yaml:"sizes"`
}

func newInspectInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.pdf>",
		Short: "Show version, metadata and page sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pdf.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			pages, err := doc.Pages()
			if err != nil {
				return fmt.Errorf("reading pages: %w", err)
			}

			info := fileInfo{
				File:    args[0],
				Version: doc.Version(),
				Pages:   len(pages),
				Info:    doc.Info(),
			}
			for i, p := range pages {
				info.Sizes = append(info.Sizes, pageSize{Page: i + 1, Width: p.Width, Height: p.Height, Rotate: p.Rotate})
			}

			out := cmd.OutOrStdout()
			if done, err := encodeOutput(out, viper.GetString("output"), info); done {
				return err
			}
			return renderInfo(out, info)
		},
	}
}

func renderInfo(w io.Writer, info fileInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	_ = table.Append("File", info.File)
	_ = table.Append("Version", "PDF-"+info.Version)
	_ = table.Append("Pages", strconv.Itoa(info.Pages))

	keys := make([]string, 0, len(info.Info))
	for k := range info.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = table.Append(k, info.Info[k])
	}
	for _, s := range info.Sizes {
		size := fmt.Sprintf("%.0f x %.0f pt", s.Width, s.Height)
		if s.Rotate != 0 {
			size += fmt.Sprintf(" (rotated %d°)", s.Rotate)
		}
		_ = table.Append(fmt.Sprintf("Page %d", s.Page), size)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func newInspectTextCommand() *cobra.Command {
	var pageRange, format, outFile string
	cmd := &cobra.Command{
		Use:   "text <file.pdf>",
		Short: "Extract the text of a PDF",
		Example: `  apidoc inspect text docs.pdf
  apidoc inspect text -p 1-3 -f json docs.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pdf.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			total, err := doc.NumPages()
			if err != nil {
				return fmt.Errorf("reading pages: %w", err)
			}
			indices, err := parsePageRange(pageRange, total)
			if err != nil {
				return fmt.Errorf("invalid page range %q: %w", pageRange, err)
			}

			type pageText struct {
				Page int    `json:"page"`
				Text string `json:"text"`
			}
			var results []pageText
			for _, i := range indices {
				text, err := doc.PageText(i)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: page %d: %v\n", i+1, err)
					continue
				}
				results = append(results, pageText{Page: i + 1, Text: text})
			}

			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			case "markdown":
				for _, r := range results {
					fmt.Fprintf(out, "## Page %d\n\n%s\n\n", r.Page, r.Text)
				}
			case "text", "":
				for i, r := range results {
					if i > 0 {
						fmt.Fprintln(out, "\f")
					}
					fmt.Fprintln(out, r.Text)
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pageRange, "pages", "p", "", `page range, e.g. "1", "1-5", "1,3,5" (default all)`)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "text, json or markdown")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

// parsePageRange converts a 1-based page range to 0-based indices in the
// order given, without duplicates. The empty range selects every page.
func parsePageRange(spec string, total int) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	var out []int
	seen := map[int]bool{}
	add := func(p int) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p-1)
		}
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", lo)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid page number: %s", hi)
			}
		}
		if start < 1 || end > total || start > end {
			return nil, fmt.Errorf("pages %s out of bounds (1-%d)", part, total)
		}
		for p := start; p <= end; p++ {
			add(p)
		}
	}
	return out, nil
}
