package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"

	"golang.org/x/net/html/charset"
)

const (
	xmlItemTag  = "item"
	xmlCountTag = "totalCount"
	xmlErrorTag = "OpenAPI_ServiceResponse"
)

// XML decodes pages where every <item> element, at any depth, is one item and
// its direct children are the fields
type XML struct{}

// ParsePage implements Parser
func (p *XML) ParsePage(body []byte) (Page, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		page    Page
		rootSet bool
		count   strings.Builder
		inCount bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Page{}, perr.Wrap(err, perr.ErrorCodeParse, "decode xml page")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSet {
				rootSet = true
				if t.Name.Local == xmlErrorTag {
					return Page{}, serviceError(body)
				}
			}
			switch t.Name.Local {
			case xmlItemTag:
				it, err := readItem(dec)
				if err != nil {
					return Page{}, perr.Wrap(err, perr.ErrorCodeParse, "decode xml item")
				}
				page.Items = append(page.Items, it)
			case xmlCountTag:
				inCount = true
				count.Reset()
			}
		case xml.CharData:
			if inCount {
				count.Write(t)
			}
		case xml.EndElement:
			if inCount && t.Name.Local == xmlCountTag {
				inCount = false
				if n, err := strconv.Atoi(strings.TrimSpace(count.String())); err == nil && n >= 0 && n <= math.MaxInt32 {
					page.Total, page.HasTotal = n, true
				}
			}
		}
	}
	if !rootSet {
		return Page{}, perr.Parsef("empty xml document")
	}
	return page, nil
}

type xmlItem struct {
	entry record.RawEntry
	err   error
}

func (it xmlItem) Entry() (record.RawEntry, error) { return it.entry, it.err }

// readItem consumes tokens up to the matching </item>. A field that contains
// elements marks the item as malformed but is still consumed so the page can go on
func readItem(dec *xml.Decoder) (xmlItem, error) {
	it := xmlItem{entry: record.RawEntry{}}
	var (
		field string
		text  strings.Builder
		depth int // 0 = directly inside <item>
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return it, io.ErrUnexpectedEOF
			}
			return it, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				field = t.Name.Local
				text.Reset()
			} else if it.err == nil {
				it.err = perr.WithField(perr.ItemParsef("nested element <%s>", t.Name.Local), field)
			}
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				if it.err != nil {
					it.entry = nil
				}
				return it, nil
			}
			if depth == 1 {
				it.entry[field] = strings.TrimSpace(text.String())
			}
			depth--
		}
	}
}
