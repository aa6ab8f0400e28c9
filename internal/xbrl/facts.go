// Package xbrl models the SEC EDGAR companyfacts document as an immutable,
// in-memory fact store keyed by us-gaap concept name.
package xbrl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FactPoint is one reported observation of a concept for a specific period.
type FactPoint struct {
	Tag          string          `json:"tag"`
	Unit         string          `json:"unit"`
	Value        decimal.Decimal `json:"val"`
	End          string          `json:"end"`
	Start        string          `json:"start,omitempty"`
	Filed        string          `json:"filed,omitempty"`
	FiscalPeriod string          `json:"fp,omitempty"`
	Form         string          `json:"form,omitempty"`
	Accession    string          `json:"accn,omitempty"`
}

// FactStore holds every usable fact point of one entity, grouped by concept.
// Points of a concept are flattened across unit buckets in lexicographic unit
// order, so iteration is deterministic. The store is append-only during
// construction and read-only afterwards.
type FactStore struct {
	CIK        string
	EntityName string

	points map[string][]FactPoint
}

// NewFactStore builds an empty store.
func NewFactStore(entityName string) *FactStore {
	return &FactStore{EntityName: entityName, points: make(map[string][]FactPoint)}
}

// Add appends fact points under a concept. Points without a parseable
// period-end date are unusable and silently dropped.
func (s *FactStore) Add(concept string, pts ...FactPoint) {
	for _, pt := range pts {
		end, ok := NormalizeDate(pt.End)
		if !ok {
			continue
		}
		pt.End = end
		if pt.Tag == "" {
			pt.Tag = concept
		}
		if start, ok := NormalizeDate(pt.Start); ok {
			pt.Start = start
		} else {
			pt.Start = ""
		}
		if filed, ok := NormalizeDate(pt.Filed); ok {
			pt.Filed = filed
		} else {
			pt.Filed = ""
		}
		s.points[concept] = append(s.points[concept], pt)
	}
}

// Points returns all usable points reported under a concept, across every
// measurement unit. A missing concept yields nil, not an error.
func (s *FactStore) Points(concept string) []FactPoint {
	if s == nil {
		return nil
	}
	return s.points[concept]
}

// Concepts lists the stored concept names in sorted order.
func (s *FactStore) Concepts() []string {
	names := make([]string, 0, len(s.points))
	for name := range s.points {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the total number of stored points.
func (s *FactStore) Len() int {
	total := 0
	for _, pts := range s.points {
		total += len(pts)
	}
	return total
}

// NormalizeDate reduces a raw EDGAR date string to canonical YYYY-MM-DD form.
// Returns false when the input does not carry a parseable date.
func NormalizeDate(raw string) (string, bool) {
	if len(raw) < 10 {
		return "", false
	}
	iso := raw[:10]
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return "", false
	}
	return iso, true
}

// rawDocument mirrors the companyfacts JSON layout:
// facts → taxonomy → concept → units → unit name → point list.
type rawDocument struct {
	CIK        json.Number                      `json:"cik"`
	EntityName string                           `json:"entityName"`
	Facts      map[string]map[string]rawConcept `json:"facts"`
}

type rawConcept struct {
	Label string                `json:"label"`
	Units map[string][]rawPoint `json:"units"`
}

// rawPoint keeps val as raw JSON so a single non-numeric value cannot fail
// the whole document decode; such points are dropped individually.
type rawPoint struct {
	Start string          `json:"start"`
	End   string          `json:"end"`
	Val   json.RawMessage `json:"val"`
	Accn  string          `json:"accn"`
	FP    string          `json:"fp"`
	Form  string          `json:"form"`
	Filed string          `json:"filed"`
}

// ParseCompanyFacts decodes a companyfacts document into a FactStore,
// keeping only the requested taxonomy (normally "us-gaap"). Malformed
// points are expected noise in real filings and are discarded silently;
// only a broken top-level document is an error.
func ParseCompanyFacts(data []byte, taxonomy string) (*FactStore, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode companyfacts: %w", err)
	}

	store := NewFactStore(doc.EntityName)
	store.CIK = doc.CIK.String()

	concepts := doc.Facts[taxonomy]
	for concept, node := range concepts {
		units := make([]string, 0, len(node.Units))
		for unit := range node.Units {
			units = append(units, unit)
		}
		sort.Strings(units)

		for _, unit := range units {
			for _, raw := range node.Units[unit] {
				val, ok := parseNumeric(raw.Val)
				if !ok {
					continue
				}
				store.Add(concept, FactPoint{
					Tag:          concept,
					Unit:         unit,
					Value:        val,
					End:          raw.End,
					Start:        raw.Start,
					Filed:        raw.Filed,
					FiscalPeriod: raw.FP,
					Form:         raw.Form,
					Accession:    raw.Accn,
				})
			}
		}
	}

	return store, nil
}

func parseNumeric(raw json.RawMessage) (decimal.Decimal, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return decimal.Decimal{}, false
	}
	// JSON strings, booleans, nulls, and composites are not numeric facts.
	switch trimmed[0] {
	case '"', 't', 'f', 'n', '{', '[':
		return decimal.Decimal{}, false
	}
	val, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return val, true
}
