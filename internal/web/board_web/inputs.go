package board_web

import (
	"net/url"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
	FormatHTML = "html"
)

type StatusQuery struct {
	Format string // "json", "text" or "html"
}

func ParseStatusQuery(values url.Values) StatusQuery {
	format := strings.TrimSpace(values.Get("format"))
	format = strings.ToLower(format)
	switch format {
	case FormatText, FormatHTML:
	default:
		format = FormatJSON
	}
	return StatusQuery{Format: format}
}
