package apidocpdf

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var samplePDF = []byte("%PDF-1.4 sample export")

func TestResultAccessors(t *testing.T) {
	r := &Result{data: samplePDF, pages: 3}

	if !bytes.Equal(r.Bytes(), samplePDF) {
		t.Error("Bytes() did not return the PDF")
	}
	if r.Len() != len(samplePDF) {
		t.Errorf("Len() = %d", r.Len())
	}
	if r.Pages() != 3 {
		t.Errorf("Pages() = %d", r.Pages())
	}
	if got, want := r.Base64(), base64.StdEncoding.EncodeToString(samplePDF); got != want {
		t.Errorf("Base64() = %q, want %q", got, want)
	}
}

func TestResultReaderIsIndependent(t *testing.T) {
	r := &Result{data: samplePDF}
	first, err := io.ReadAll(r.Reader())
	if err != nil {
		t.Fatal(err)
	}
	second, _ := io.ReadAll(r.Reader())
	if !bytes.Equal(first, samplePDF) || !bytes.Equal(second, samplePDF) {
		t.Error("Reader() did not replay the whole PDF")
	}
}

func TestResultWriteTo(t *testing.T) {
	r := &Result{data: samplePDF}
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(samplePDF)) || !bytes.Equal(buf.Bytes(), samplePDF) {
		t.Errorf("WriteTo wrote %d bytes: %q", n, buf.Bytes())
	}

	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := r.WriteToFile(path, 0o644); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, samplePDF) {
		t.Error("WriteToFile produced different content")
	}
}
