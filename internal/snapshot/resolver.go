package snapshot

import (
	"rx-solvency-snapshot/internal/xbrl"
)

// resolvePoint returns the best fact point for one accounting idea at an
// exact period end. Candidates are collected across the whole chain and
// ranked by (unit matches preferredUnit, earlier chain position); the first
// point encountered wins remaining ties. Nil means the concept is simply
// absent at this end date, which callers treat as unknown, never as an error.
func resolvePoint(store *xbrl.FactStore, chain TagChain, end, preferredUnit string) *xbrl.FactPoint {
	var (
		best     *xbrl.FactPoint
		bestUnit bool
		bestPos  int
	)

	for pos, tag := range chain {
		for _, pt := range store.Points(tag) {
			if pt.End != end {
				continue
			}
			unitMatch := pt.Unit == preferredUnit
			if best != nil && !better(unitMatch, pos, bestUnit, bestPos) {
				continue
			}
			cand := pt
			best = &cand
			bestUnit = unitMatch
			bestPos = pos
		}
	}

	return best
}

func better(unitMatch bool, pos int, bestUnit bool, bestPos int) bool {
	if unitMatch != bestUnit {
		return unitMatch
	}
	return pos < bestPos
}
