package epub

import (
	"archive/zip"
	"bytes"
	"testing"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0">
  <metadata>
    <dc:title>Moby Dick</dc:title>
    <dc:creator opf:role="aut" xmlns:opf="http://www.idpf.org/2007/opf">Herman Melville</dc:creator>
  </metadata>
</package>`

func buildEpub(t *testing.T, mimetype string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"mimetype":               mimetype,
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
	}
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewReaderMetadata(t *testing.T) {
	raw := buildEpub(t, "application/epub+zip")

	book, err := NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("failed to parse epub: %v", err)
	}

	if got := book.GetTitle(); got != "Moby Dick" {
		t.Errorf("title = %q, want Moby Dick", got)
	}
	if got := book.GetAuthor(); got != "Herman Melville" {
		t.Errorf("author = %q, want Herman Melville", got)
	}
}

func TestNewReaderRejectsWrongMimetype(t *testing.T) {
	raw := buildEpub(t, "application/pdf")

	if _, err := NewReader(bytes.NewReader(raw), int64(len(raw))); err == nil {
		t.Fatalf("non-epub mimetype should be rejected")
	}
}

func TestNewReaderRejectsGarbage(t *testing.T) {
	raw := []byte("this is not a zip archive")
	if _, err := NewReader(bytes.NewReader(raw), int64(len(raw))); err == nil {
		t.Fatalf("non-zip payload should be rejected")
	}
}
