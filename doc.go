// Package apidocpdf exports API collection documentation as paginated PDF.
//
// A [model.Document] (usually produced by the postman importer) is laid out
// by the layout package and encoded with gofpdf:
//
//	res, err := apidocpdf.Export(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res.WriteToFile("api_documentation.pdf", 0o644)
//
// For repeated exports create an [Exporter] once; it keeps no per-render
// state and may be shared between goroutines:
//
//	e := apidocpdf.NewExporter(apidocpdf.WithLogger(logger))
//	res, err := e.Export(ctx, doc)
//
// Every page carries a footer band with the generation date and
// "Page i of N". With [WithClock] the output is reproducible byte for byte.
//
// # Browser engine
//
// [BrowserExporter] prints an HTML rendering of the same document with
// headless Chrome instead. Chrome must be in PATH, or use [WithAutoDownload]:
//
//	b, err := apidocpdf.NewBrowserExporter(apidocpdf.WithAutoDownload())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//	res, err := b.Export(ctx, doc)
//
// Both engines implement [Engine] and reject documents without items with
// [ErrNoItems] before drawing anything.
package apidocpdf
