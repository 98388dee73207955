package epub

type Container struct {
	Rootfile Rootfile `xml:"rootfiles>rootfile" json:"rootfile"`
}

type Rootfile struct {
	Fullpath string `xml:"full-path,attr"`
	Type     string `xml:"media-type,attr"`
}

// Opf is the package document carrying the book's metadata.
type Opf struct {
	Metadata Metadata `xml:"metadata" json:"metadata"`
}

type Metadata struct {
	Title   []string  `xml:"title" json:"title"`
	Creator []Creator `xml:"creator" json:"creator"`
}

type Creator struct {
	Data string `xml:",chardata" json:"data"`
	Role string `xml:"role,attr" json:"role"`
}
