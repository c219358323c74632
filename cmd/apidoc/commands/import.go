package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/porticus-lab/go-apidoc-pdf/model"
	"github.com/porticus-lab/go-apidoc-pdf/postman"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var uid string
	cmd := &cobra.Command{
		Use:   "import [collection.json]",
		Short: "Convert a Postman collection to a normalized document",
		Long: `Convert a Postman collection file, or a collection fetched from the
Postman API with --uid, and print the resulting document. Use --output json
or yaml to get a document that export accepts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c *postman.Collection
			switch {
			case uid != "" && len(args) > 0:
				return errors.New("give either a file or --uid, not both")
			case uid != "":
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				log, err := newLogger(cfg)
				if err != nil {
					return err
				}
				c, err = newFetcher(cfg, log).Fetch(cmd.Context(), uid)
				if err != nil {
					return err
				}
			case len(args) == 1:
				var err error
				c, err = readCollection(args[0])
				if err != nil {
					return err
				}
			default:
				return errors.New("no collection given")
			}

			doc := postman.FromCollection(c)
			out := cmd.OutOrStdout()
			if done, err := encodeOutput(out, viper.GetString("output"), doc); done {
				return err
			}
			return renderDocumentTable(cmd, doc)
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "fetch this collection from the Postman API")
	return cmd
}

func readCollection(path string) (*postman.Collection, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := postman.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func renderDocumentTable(cmd *cobra.Command, doc *model.Document) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d requests)\n", doc.Name, len(doc.Items))

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("#", "Folder", "Method", "Name", "URL")
	for i, r := range doc.Items {
		_ = table.Append(strconv.Itoa(i+1), r.Folder(), r.Method, r.Name, r.URL)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
