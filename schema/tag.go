package schema

import "strings"

// ParsedTag is the column mapping read from a struct tag.
//
//	Name  string `db:"full_name"`  // maps Name to full_name
//	Cache []byte `db:"-"`          // excluded from AddAllColumns
type ParsedTag struct {
	Column string
	Skip   bool
}

func parseTag(value string) ParsedTag {
	if value == "-" {
		return ParsedTag{Skip: true}
	}
	// options after ';' or ',' are accepted and ignored
	if i := strings.IndexAny(value, ";,"); i >= 0 {
		value = value[:i]
	}
	return ParsedTag{Column: strings.TrimSpace(value)}
}
