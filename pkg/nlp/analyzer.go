package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAnalyzerUnavailable is returned when no analysis backend can serve the request
var ErrAnalyzerUnavailable = errors.New("linguistic analyzer unavailable")

// TokenRecord is the linguistic analysis of one token, in source order
type TokenRecord struct {
	Text  string `json:"texto"`
	Lemma string `json:"lema"`
	POS   string `json:"pos"`
	Tag   string `json:"tag"`
	Dep   string `json:"dependencia"`
}

// Analyzer produces per-token linguistic records. It is only consulted by the
// "analizar:" command and the analysis endpoint, never by routing.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]TokenRecord, error)
	Available() bool
}

// FormatTable renders records as the fixed-width table shown in the analysis pane
func FormatTable(records []TokenRecord) string {
	var sb strings.Builder
	sb.WriteString("Análisis lingüístico:\n")
	sb.WriteString("Palabra\t\tLema\t\tPOS\t\tEtiqueta\tDependencia\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%-8s\t%-8s\t%-8s\t%-8s\t%-12s\n", r.Text, r.Lemma, r.POS, r.Tag, r.Dep))
	}
	return sb.String()
}
