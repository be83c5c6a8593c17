package opds

import "encoding/xml"

// PlaceholderSearchTerms is the literal token e-reader clients substitute
// into the search URL template. It must survive rendering unescaped.
const PlaceholderSearchTerms = "{searchTerms}"

// OpenSearchDescription is the companion search-descriptor document
// advertised by every feed's search link.
type OpenSearchDescription struct {
	ShortName   string
	LongName    string
	Description string
	Image       string
	Template    string
}

type xmlOpenSearchURL struct {
	Type     string `xml:"type,attr"`
	Template string `xml:"template,attr"`
}

type xmlOpenSearch struct {
	XMLName     xml.Name         `xml:"OpenSearchDescription"`
	Xmlns       string           `xml:"xmlns,attr"`
	ShortName   string           `xml:"ShortName"`
	LongName    string           `xml:"LongName,omitempty"`
	Description string           `xml:"Description"`
	Image       string           `xml:"Image,omitempty"`
	URL         xmlOpenSearchURL `xml:"Url"`
}

// Render serializes the descriptor. The single URL entry is typed as the
// Atom profile MIME type.
func (d *OpenSearchDescription) Render() ([]byte, error) {
	doc := xmlOpenSearch{
		Xmlns:       "http://a9.com/-/spec/opensearch/1.1/",
		ShortName:   d.ShortName,
		LongName:    d.LongName,
		Description: d.Description,
		Image:       d.Image,
		URL:         xmlOpenSearchURL{Type: MimeTypeAtom, Template: d.Template},
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
