package export

import (
	"bytes"
	"testing"

	"github.com/hyperifyio/goarticle/internal/article"
	"github.com/hyperifyio/goarticle/internal/template"
)

func TestWritePDF_ProducesDocument(t *testing.T) {
	a, err := article.Generate(article.Input{
		Words:     800,
		Field:     "Café Marketing",
		Location:  "Zürich",
		Tone:      template.Storytelling,
		Primary:   []string{"Café Marketing", "Café Marketing Zürich"},
		Secondary: []string{"espresso", "loyalty cards"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, a); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:16])
	}
	if buf.Len() < 1000 {
		t.Fatalf("pdf suspiciously small: %d bytes", buf.Len())
	}
}

func TestWritePDF_EmptyArticle(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, article.Article{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected a PDF header")
	}
}
