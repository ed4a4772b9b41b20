package backend

import (
	"fmt"
	"strings"
)

// ConnectionState is the client-side view of the backend's serial connection
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Category names one of the image buckets shown as gallery tabs
type Category string

const (
	CategoryTrial    Category = "trial"
	CategoryAnalysis Category = "analysis"
	CategorySummary  Category = "summary"
)

// Categories lists the gallery tabs in display order
var Categories = []Category{CategoryTrial, CategoryAnalysis, CategorySummary}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown gallery category %q (want trial, analysis or summary)", s)
}

// Label returns the tab caption
func (c Category) Label() string {
	switch c {
	case CategoryTrial:
		return "Trial"
	case CategoryAnalysis:
		return "Analysis"
	case CategorySummary:
		return "Summary"
	}
	return string(c)
}

// Listing maps each category to its file names in server order
type Listing map[Category][]string

// For returns the names for a category, or an empty slice when the key is absent
func (l Listing) For(c Category) []string {
	names, ok := l[c]
	if !ok || names == nil {
		return []string{}
	}
	return names
}

// StatusResponse represents GET /api/status
type StatusResponse struct {
	Connected bool `json:"conectado"`
}

// ConnectRequest represents POST /api/connect
type ConnectRequest struct {
	Port string `json:"porta"`
}

// SendRequest represents POST /api/send
type SendRequest struct {
	Command string `json:"comando"`
}

// ChartRequest represents POST /api/grafico
type ChartRequest struct {
	Offset int `json:"deslocamento"`
}

// Ack is the {ok, msg} acknowledgment returned by command endpoints
type Ack struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

// LogResponse represents GET /api/log
type LogResponse struct {
	Lines []string `json:"linhas"`
	Next  *int     `json:"proximo,omitempty"` // absent in malformed responses
}

// ListingResponse represents GET /api/graficos
type ListingResponse struct {
	Trial    []string `json:"graficos_ensaio"`
	Analysis []string `json:"graficos_analise"`
	Summary  []string `json:"graficos_resumo"`
}

// Listing converts the wire payload, omitting absent keys
func (r ListingResponse) Listing() Listing {
	l := Listing{}
	if r.Trial != nil {
		l[CategoryTrial] = r.Trial
	}
	if r.Analysis != nil {
		l[CategoryAnalysis] = r.Analysis
	}
	if r.Summary != nil {
		l[CategorySummary] = r.Summary
	}
	return l
}

// FilePath returns the static path the backend serves an artifact from
func FilePath(name string) string {
	return "/files/" + name
}
