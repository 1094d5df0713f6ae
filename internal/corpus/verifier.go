package corpus

import (
	"fmt"
	"io"
	"math/rand"

	"go.uber.org/zap"
)

// Verifier runs read-only consistency and coverage checks over a finished
// corpus. It never mutates the documents.
type Verifier struct {
	docs   []Document
	logger *zap.Logger
}

// NewVerifier wraps a synthesized corpus for inspection.
func NewVerifier(docs []Document, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{docs: docs, logger: logger}
}

// CountsByType tabulates documents per doc_type. Unknown types count under
// "unknown".
func (v *Verifier) CountsByType() map[string]int {
	out := make(map[string]int)
	for _, d := range v.docs {
		t := d.Type()
		if t == "" {
			t = "unknown"
		}
		out[t]++
	}
	return out
}

// PairCount is the multi-dimension coverage for one dimension pair.
type PairCount struct {
	Dimension1 string
	Dimension2 string
	Count      int
}

// MultiDimensionCoverage tabulates multi-dimension documents per
// (dimension1, dimension2) pair, in first-seen corpus order.
func (v *Verifier) MultiDimensionCoverage() []PairCount {
	index := map[[2]string]int{}
	var out []PairCount
	for _, d := range v.docs {
		if d.Type() != DocTypeMultiSegment {
			continue
		}
		key := [2]string{d.Metadata["dimension1"], d.Metadata["dimension2"]}
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, PairCount{Dimension1: key[0], Dimension2: key[1], Count: 1})
	}
	return out
}

// FindMatching returns up to limit documents whose metadata exactly matches
// every key/value in criteria.
func (v *Verifier) FindMatching(criteria map[string]string, limit int) []Document {
	var out []Document
	for _, d := range v.docs {
		if !d.Matches(criteria) {
			continue
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// CanAnswer reports whether at least one document matches the criteria.
// It is the cheap sanity check run before the LLM pipeline: if no document
// carries the metadata a question class needs, generation cannot ground it.
func (v *Verifier) CanAnswer(criteria map[string]string) bool {
	return len(v.FindMatching(criteria, 1)) > 0
}

// SampleByType picks up to n documents per doc_type. A nil rng samples the
// head of each type, which keeps output deterministic for tests.
func (v *Verifier) SampleByType(n int, rng *rand.Rand) []Document {
	var out []Document
	for _, docType := range DocTypes {
		var ofType []Document
		for _, d := range v.docs {
			if d.Type() == docType {
				ofType = append(ofType, d)
			}
		}
		if len(ofType) == 0 {
			continue
		}
		if rng != nil {
			rng.Shuffle(len(ofType), func(i, j int) { ofType[i], ofType[j] = ofType[j], ofType[i] })
		}
		if len(ofType) > n {
			ofType = ofType[:n]
		}
		out = append(out, ofType...)
	}
	return out
}

// CapabilityCheck names a class of analytical question and the metadata a
// document must carry to answer it.
type CapabilityCheck struct {
	Description string
	Criteria    map[string]string
}

// CheckCapabilities evaluates each named check and logs the outcome.
// It returns the number of checks that passed.
func (v *Verifier) CheckCapabilities(checks []CapabilityCheck) int {
	passed := 0
	for _, c := range checks {
		ok := v.CanAnswer(c.Criteria)
		if ok {
			passed++
		}
		v.logger.Info("capability check",
			zap.String("description", c.Description),
			zap.Bool("answerable", ok))
	}
	return passed
}

// Report writes a human-readable distribution and coverage summary.
func (v *Verifier) Report(w io.Writer) {
	fmt.Fprintln(w, "Document distribution by type:")
	counts := v.CountsByType()
	for _, t := range DocTypes {
		if c, ok := counts[t]; ok {
			fmt.Fprintf(w, "- %s: %d documents\n", t, c)
		}
	}
	if c, ok := counts["unknown"]; ok {
		fmt.Fprintf(w, "- unknown: %d documents\n", c)
	}
	coverage := v.MultiDimensionCoverage()
	if len(coverage) > 0 {
		fmt.Fprintln(w, "\nMulti-dimension coverage:")
		for _, pc := range coverage {
			fmt.Fprintf(w, "- %s + %s: %d segments\n", pc.Dimension1, pc.Dimension2, pc.Count)
		}
	}
}
