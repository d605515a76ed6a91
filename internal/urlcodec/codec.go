// Package urlcodec maps a filters.State to and from a shareable query string.
package urlcodec

import (
	"net/url"
	"strconv"
	"strings"

	"car-listings-api/internal/filters"
)

// Encode renders s as a query string without the leading '?'. Keys follow
// filters.Keys order and unset fields are omitted entirely.
func Encode(s filters.State) string {
	var b strings.Builder
	add := func(k filters.Field, v string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(string(k)))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}

	for _, k := range filters.Keys() {
		switch k {
		case filters.FieldIsNew:
			if s.IsNew != nil {
				add(k, strconv.FormatBool(*s.IsNew))
			}
		case filters.FieldSort:
			if s.Sort.Valid() && s.Sort != filters.DefaultSort {
				add(k, string(s.Sort))
			}
		case filters.FieldPage:
			if s.Page > 1 {
				add(k, strconv.Itoa(s.Page))
			}
		default:
			if v, ok := s.Text(k); ok {
				add(k, v)
			}
		}
	}
	return b.String()
}

// Decode reads the fixed key set from q. Missing or blank keys decode to unset,
// an unknown sort to the default and an unparsable page to 1. Orphaned models
// and trims and an inverted date range are dropped (see filters.Sanitize).
func Decode(q url.Values) filters.State {
	s := filters.New()
	for _, k := range filters.Keys() {
		raw := q.Get(string(k))
		switch k {
		case filters.FieldIsNew:
			switch raw {
			case "true":
				s.IsNew = filters.BoolPtr(true)
			case "false":
				s.IsNew = filters.BoolPtr(false)
			}
		case filters.FieldSort:
			if o, ok := filters.ParseSort(raw); ok {
				s.Sort = o
			}
		case filters.FieldPage:
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
				s.Page = n
			}
		default:
			s = s.WithText(k, raw)
		}
	}
	return filters.Sanitize(s)
}

// DecodeString decodes a raw query string, with or without a leading '?'.
// Malformed pairs are skipped.
func DecodeString(raw string) filters.State {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(q)
}

// Path joins a route path and the encoded state.
func Path(path string, s filters.State) string {
	q := Encode(s)
	if q == "" {
		return path
	}
	return path + "?" + q
}
