package parse

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// JSON decodes pages whose items sit at a dotted path
type JSON struct {
	ItemPath  string
	CountPath string
}

// ParsePage implements Parser
func (p *JSON) ParsePage(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return Page{}, serviceError(trimmed)
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc,
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	); err != nil {
		return Page{}, perr.Wrap(err, perr.ErrorCodeParse, "decode json page")
	}

	var page Page
	for _, v := range locateItems(doc, splitPath(p.ItemPath)) {
		page.Items = append(page.Items, jsonItem{v: v})
	}
	if p.CountPath != "" {
		page.Total, page.HasTotal = locateCount(doc, splitPath(p.CountPath))
	}
	return page, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, ". ")
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// locateItems walks path and tolerates the shapes public APIs actually return:
// an array met before the path ends is the item list, a lone object is one item,
// and "", null or a missing key mean no items
func locateItems(doc any, path []string) []any {
	cur := doc
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			return node
		default:
			return nil
		}
	}
	switch node := cur.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(node) == "" {
			return nil
		}
		return []any{node}
	case []any:
		return node
	default:
		return []any{node}
	}
}

func locateCount(doc any, path []string) (int, bool) {
	cur := doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		if cur, ok = m[key]; !ok {
			return 0, false
		}
	}
	switch v := cur.(type) {
	case float64:
		if math.IsNaN(v) || v < 0 || v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

type jsonItem struct{ v any }

// Entry accepts flat objects of scalars only
func (it jsonItem) Entry() (record.RawEntry, error) {
	obj, ok := it.v.(map[string]any)
	if !ok {
		return nil, perr.ItemParsef("item is %s, want object", kindOf(it.v))
	}
	e := make(record.RawEntry, len(obj))
	for k, v := range obj {
		switch v.(type) {
		case nil, string, float64, bool:
			e[k] = v
		default:
			return nil, perr.WithField(perr.ItemParsef("field holds %s, want scalar", kindOf(v)), k)
		}
	}
	return e, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
