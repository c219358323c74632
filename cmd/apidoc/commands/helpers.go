package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apidocpdf "github.com/porticus-lab/go-apidoc-pdf"
	"github.com/porticus-lab/go-apidoc-pdf/internal/config"
	"github.com/porticus-lab/go-apidoc-pdf/internal/logging"
	"github.com/porticus-lab/go-apidoc-pdf/model"
	"github.com/porticus-lab/go-apidoc-pdf/postman"
)

// loadConfig reads the global viper instance. Defaults are registered
// again so commands also work when the root initializer did not run.
func loadConfig() (config.Config, error) {
	v := viper.GetViper()
	config.SetDefaults(v)
	return config.Load(v)
}

// newLogger logs to stderr so stdout stays free for command output.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// browserOptions maps the browser settings onto exporter options.
func browserOptions(b config.Browser) []apidocpdf.Option {
	var opts []apidocpdf.Option
	if b.ChromePath != "" {
		opts = append(opts, apidocpdf.WithChromePath(b.ChromePath))
	}
	if b.NoSandbox {
		opts = append(opts, apidocpdf.WithNoSandbox())
	}
	if b.AutoDownload {
		opts = append(opts, apidocpdf.WithAutoDownload())
	}
	if b.Timeout > 0 {
		opts = append(opts, apidocpdf.WithTimeout(b.Timeout))
	}
	return opts
}

// readDocument loads a document from path. It accepts a normalized
// document as JSON or YAML, the {"responseData": ...} export body, and
// Postman collections.
func readDocument(path string) (*model.Document, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc model.Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &doc, nil
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// openInput opens path, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func decodeDocument(data []byte) (*model.Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if inner, ok := probe["responseData"]; ok {
		return decodeDocument(inner)
	}
	_, hasItems := probe["items"]
	_, hasItem := probe["item"]
	_, hasCollection := probe["collection"]
	switch {
	case hasItems:
		var doc model.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	case hasItem || hasCollection:
		c, err := postman.Parse(data)
		if err != nil {
			return nil, err
		}
		return postman.FromCollection(c), nil
	}
	return nil, errors.New("neither a document nor a Postman collection")
}

// encodeOutput writes v as indented JSON or YAML. It reports false for
// other formats so the caller can render a table.
func encodeOutput(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		if err := enc.Close(); err != nil {
			return true, err
		}
		_, err := buf.WriteTo(w)
		return true, err
	}
	return false, nil
}
