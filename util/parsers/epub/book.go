package epub // import "github.com/tetherhq/tether-read/util/parsers/epub"

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
)

// Book holds the metadata sections of an EPUB archive.
type Book struct {
	Opf       Opf       `json:"opf"`
	Container Container `json:"container"`
	Mimetype  string    `json:"mimetype"`

	fd *zip.Reader
}

// GetTitle returns the book title declared in the package document.
func (p *Book) GetTitle() string {
	if len(p.Opf.Metadata.Title) > 0 {
		return p.Opf.Metadata.Title[0]
	}
	return ""
}

// GetAuthor returns the first creator with the author role, falling back
// to a creator with no role.
func (p *Book) GetAuthor() string {
	for _, author := range p.Opf.Metadata.Creator {
		if author.Role == "aut" {
			return author.Data
		} else if author.Role == "" {
			return author.Data
		}
	}
	return ""
}

// readXML reads the file with the given name and unmarshals it into the given interface
func (p *Book) readXML(n string, v interface{}) error {
	rc, err := p.open(n)
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

// readBytes reads the file with the given name and returns its content as a byte slice
func (p *Book) readBytes(n string) ([]byte, error) {
	rc, err := p.open(n)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// open opens the file with the given name
func (p *Book) open(n string) (io.ReadCloser, error) {
	for _, f := range p.fd.File {
		if f.Name == n {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("file not found: %s", n)
}
