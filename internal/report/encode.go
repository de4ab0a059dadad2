package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Document is the structured report shared by the JSON and CBOR encoders.
// Enumerations are spelled out so decoders need no knowledge of this module.
type Document struct {
	Summary Summary    `json:"summary" cbor:"summary"`
	Themes  []ThemeDoc `json:"themes" cbor:"themes"`
}

// ThemeDoc is the structured form of one Entry.
type ThemeDoc struct {
	Name         string     `json:"name" cbor:"name"`
	Source       string     `json:"source,omitempty" cbor:"source,omitempty"`
	OverallPass  bool       `json:"overall_pass" cbor:"overall_pass"`
	PassCount    int        `json:"pass_count" cbor:"pass_count"`
	FailureCount int        `json:"failure_count" cbor:"failure_count"`
	Checks       []CheckDoc `json:"checks" cbor:"checks"`
	Fixes        []FixDoc   `json:"fixes,omitempty" cbor:"fixes,omitempty"`
}

// CheckDoc is the structured form of an audit.Check.
type CheckDoc struct {
	Description string  `json:"description" cbor:"description"`
	Key         string  `json:"key" cbor:"key"`
	Foreground  string  `json:"foreground" cbor:"foreground"`
	Background  string  `json:"background" cbor:"background"`
	Ratio       float64 `json:"ratio" cbor:"ratio"`
	Required    float64 `json:"required" cbor:"required"`
	Level       string  `json:"level" cbor:"level"`
	Pass        bool    `json:"pass" cbor:"pass"`
	Category    string  `json:"category" cbor:"category"`
}

// FixDoc is the structured form of an audit.Fix.
type FixDoc struct {
	Key           string  `json:"key" cbor:"key"`
	Check         string  `json:"check" cbor:"check"`
	Original      string  `json:"original" cbor:"original"`
	Suggested     string  `json:"suggested" cbor:"suggested"`
	OriginalRatio float64 `json:"original_ratio" cbor:"original_ratio"`
	NewRatio      float64 `json:"new_ratio" cbor:"new_ratio"`
	Direction     string  `json:"direction" cbor:"direction"`
}

// NewDocument converts entries into a Document.
func NewDocument(entries []Entry) Document {
	doc := Document{
		Summary: Summarize(entries),
		Themes:  make([]ThemeDoc, 0, len(entries)),
	}
	for _, e := range entries {
		r := e.Result
		td := ThemeDoc{
			Name:         r.ThemeName,
			Source:       r.Source,
			OverallPass:  r.OverallPass,
			PassCount:    r.PassCount,
			FailureCount: r.FailureCount,
			Checks:       make([]CheckDoc, 0, len(r.Checks)),
		}
		for _, c := range r.Checks {
			td.Checks = append(td.Checks, CheckDoc{
				Description: c.Description,
				Key:         c.Key,
				Foreground:  c.Foreground.String(),
				Background:  c.Background.String(),
				Ratio:       c.Ratio,
				Required:    c.Required,
				Level:       c.Level.String(),
				Pass:        c.Pass,
				Category:    c.Category.String(),
			})
		}
		for _, f := range e.Fixes {
			td.Fixes = append(td.Fixes, FixDoc{
				Key:           f.Check.Key,
				Check:         f.Check.Description,
				Original:      f.Suggestion.Original.String(),
				Suggested:     f.Suggestion.Suggested.String(),
				OriginalRatio: f.Suggestion.OriginalRatio,
				NewRatio:      f.Suggestion.NewRatio,
				Direction:     f.Suggestion.Direction.String(),
			})
		}
		doc.Themes = append(doc.Themes, td)
	}
	return doc
}

func renderJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(entries)); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// cborMode encodes with core deterministic rules so identical input yields
// identical bytes.
var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func renderCBOR(w io.Writer, entries []Entry) error {
	if err := cborMode.NewEncoder(w).Encode(NewDocument(entries)); err != nil {
		return fmt.Errorf("failed to encode CBOR report: %w", err)
	}
	return nil
}
