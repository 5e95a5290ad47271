package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRuleAnalyzer_Analyze(t *testing.T) {
	a := NewRuleAnalyzer()

	got, err := a.Analyze(context.Background(), "Quiero explorar Marte con la NASA.")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := []TokenRecord{
		{Text: "Quiero", Lemma: "querer", POS: PosVERB, Tag: "VERB__VerbForm=Fin", Dep: "ROOT"},
		{Text: "explorar", Lemma: "explorar", POS: PosVERB, Tag: "VERB__VerbForm=Inf", Dep: "xcomp"},
		{Text: "Marte", Lemma: "marte", POS: PosPROPN, Tag: PosPROPN, Dep: "obj"},
		{Text: "con", Lemma: "con", POS: PosADP, Tag: PosADP, Dep: "case"},
		{Text: "la", Lemma: "el", POS: PosDET, Tag: "DET__Definite=Def", Dep: "det"},
		{Text: "NASA", Lemma: "nasa", POS: PosPROPN, Tag: PosPROPN, Dep: "obl"},
		{Text: ".", Lemma: ".", POS: PosPUNCT, Tag: PosPUNCT, Dep: "punct"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleAnalyzer_Tagging(t *testing.T) {
	a := NewRuleAnalyzer()

	tests := []struct {
		word      string
		wantPOS   string
		wantLemma string
	}{
		{"robots", PosNOUN, "robot"},
		{"luces", PosNOUN, "luz"},
		{"procesadores", PosNOUN, "procesador"},
		{"investigando", PosVERB, "investigar"},
		{"hola", PosINTJ, "hola"},
		{"2024", PosNUM, "2024"},
		{"famosos", PosADJ, "famoso"},
		{"están", PosAUX, "estar"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			records, err := a.Analyze(context.Background(), tt.word)
			if err != nil || len(records) != 1 {
				t.Fatalf("Analyze(%q) = %v, %v", tt.word, records, err)
			}
			if records[0].POS != tt.wantPOS || records[0].Lemma != tt.wantLemma {
				t.Errorf("Analyze(%q) = %s/%s, want %s/%s", tt.word, records[0].POS, records[0].Lemma, tt.wantPOS, tt.wantLemma)
			}
		})
	}
}

func TestRuleAnalyzer_Empty(t *testing.T) {
	records, err := NewRuleAnalyzer().Analyze(context.Background(), "  ")
	if err != nil || len(records) != 0 {
		t.Errorf("Analyze(blank) = %v, %v; want no records", records, err)
	}
}

func TestFormatTable(t *testing.T) {
	table := FormatTable([]TokenRecord{{Text: "hola", Lemma: "hola", POS: "INTJ", Tag: "INTJ", Dep: "ROOT"}})

	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("FormatTable() has %d lines, want 4:\n%s", len(lines), table)
	}
	if lines[0] != "Análisis lingüístico:" || !strings.HasPrefix(lines[1], "Palabra") {
		t.Errorf("unexpected header:\n%s", table)
	}
	if lines[2] != strings.Repeat("-", 60) {
		t.Errorf("separator = %q", lines[2])
	}
	if !strings.Contains(lines[3], "hola") || !strings.Contains(lines[3], "ROOT") {
		t.Errorf("row = %q", lines[3])
	}
}

func TestRemoteAnalyzer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req analyzeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Text == "fallo" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(analyzeResponse{Tokens: []TokenRecord{
			{Text: req.Text, Lemma: req.Text, POS: "NOUN", Tag: "NOUN__Number=Sing", Dep: "ROOT"},
		}})
	}))
	defer srv.Close()

	a := NewRemoteAnalyzer(srv.URL+"/", time.Second)

	records, err := a.Analyze(context.Background(), "ciencia")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(records) != 1 || records[0].Text != "ciencia" {
		t.Errorf("Analyze() = %+v", records)
	}

	if _, err := a.Analyze(context.Background(), "fallo"); err == nil {
		t.Error("Analyze() expected an error for status 500")
	}

	fb := &FallbackAnalyzer{Primary: a, Secondary: NewRuleAnalyzer()}
	records, err = fb.Analyze(context.Background(), "fallo")
	if err != nil || len(records) != 1 || records[0].POS != PosNOUN {
		t.Errorf("fallback Analyze() = %+v, %v", records, err)
	}
}

func TestFallbackAnalyzer_Unavailable(t *testing.T) {
	fb := &FallbackAnalyzer{Primary: NewRemoteAnalyzer("", 0)}
	if fb.Available() {
		t.Error("Available() = true without any backend")
	}
	if _, err := fb.Analyze(context.Background(), "hola"); !errors.Is(err, ErrAnalyzerUnavailable) {
		t.Errorf("Analyze() error = %v, want ErrAnalyzerUnavailable", err)
	}

	fb.Secondary = NewRuleAnalyzer()
	if !fb.Available() {
		t.Error("Available() = false with a rule analyzer")
	}
}
