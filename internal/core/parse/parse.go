// Package parse turns one fetched page into raw items, for JSON and XML sources
package parse

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"

	"golang.org/x/net/html/charset"
)

// Format names a wire format
type Format string

const (
	// FormatJSON selects the JSON parser
	FormatJSON Format = "json"
	// FormatXML selects the XML parser
	FormatXML Format = "xml"
)

const (
	// DefaultItemPath is where data.go.kr JSON responses keep their items
	DefaultItemPath = "response.body.items.item"
	// DefaultCountPath is where data.go.kr JSON responses report the total
	DefaultCountPath = "response.body.totalCount"
)

// Item is one raw source item; decoding is deferred so one bad item can be
// skipped without failing the page
type Item interface {
	Entry() (record.RawEntry, error)
}

// Page is one decoded response page
type Page struct {
	Items    []Item
	Total    int
	HasTotal bool
}

// Parser decodes response bodies of one format
type Parser interface {
	ParsePage(body []byte) (Page, error)
}

// New returns the parser for format. Paths only apply to JSON; an empty
// itemPath addresses the document root
func New(format Format, itemPath, countPath string) (Parser, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON:
		return &JSON{ItemPath: itemPath, CountPath: countPath}, nil
	case FormatXML:
		return &XML{}, nil
	default:
		return nil, perr.Configf("unknown format %q", format)
	}
}

// serviceResponse is the envelope data.go.kr uses for gateway errors
// (bad key, quota, unknown operation), whatever format was requested
type serviceResponse struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg          string `xml:"errMsg"`
		ReturnAuthMsg   string `xml:"returnAuthMsg"`
		ReturnReasonCde string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// serviceError decodes a gateway error envelope into a fetch error
func serviceError(body []byte) error {
	var sr serviceResponse
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&sr); err != nil {
		return perr.Wrap(err, perr.ErrorCodeParse, "decode service error envelope")
	}
	h := sr.Header
	msg := strings.TrimSpace(h.ReturnAuthMsg)
	if msg == "" {
		msg = strings.TrimSpace(h.ErrMsg)
	}
	if msg == "" {
		msg = "unspecified"
	}
	if code := strings.TrimSpace(h.ReturnReasonCde); code != "" {
		return perr.Fetchf("service error %s: %s", code, msg)
	}
	return perr.Fetchf("service error: %s", msg)
}
