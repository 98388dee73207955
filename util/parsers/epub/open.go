package epub

import (
	"archive/zip"
	"fmt"
	"io"
)

// NewReader parses the metadata of an EPUB archive held in memory or in a
// temporary upload file. Only the container and package documents are
// read; content documents stay untouched.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	fd, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	b := &Book{fd: fd}
	m, err := b.readBytes("mimetype")
	if err != nil {
		return nil, err
	}
	b.Mimetype = string(m)
	if b.Mimetype != "application/epub+zip" {
		return nil, fmt.Errorf("epub: invalid mimetype: %s", b.Mimetype)
	}

	if err := b.readXML("META-INF/container.xml", &b.Container); err != nil {
		return nil, err
	}

	if err := b.readXML(b.Container.Rootfile.Fullpath, &b.Opf); err != nil {
		return nil, err
	}

	return b, nil
}
