package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Similarity thresholds for the duplicate confidence tiers.
const (
	duplicateHighThreshold   = 0.85
	duplicateMediumThreshold = 0.60
	duplicateLowThreshold    = 0.35
)

// Duplicates scores predicate-pair overlap for every (source, destination)
// node-type pair carrying two or more relationship types. Pairs whose
// predicates are each other's catalog inverse are intentionally
// complementary and are not flagged on textual evidence alone.
//
// The result is order-independent: candidates are canonicalized so swapping
// which relationship is A or B changes nothing.
func Duplicates(g *schema.Graph) []model.DuplicateCandidate {
	seen := make(map[string]bool)
	var candidates []model.DuplicateCandidate

	for _, rel := range g.RelationshipsOrdered() {
		pairKey := rel.SourceType + "->" + rel.DestType
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true

		siblings := g.Between(rel.SourceType, rel.DestType)
		if len(siblings) < 2 {
			continue
		}

		for i := 0; i < len(siblings); i++ {
			for j := i + 1; j < len(siblings); j++ {
				if c, ok := scorePair(g, siblings[i], siblings[j], len(siblings)); ok {
					candidates = append(candidates, c)
				}
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RelationshipA != candidates[j].RelationshipA {
			return candidates[i].RelationshipA < candidates[j].RelationshipA
		}
		return candidates[i].RelationshipB < candidates[j].RelationshipB
	})
	return candidates
}

func scorePair(g *schema.Graph, a, b *model.RelationshipType, siblingTotal int) (model.DuplicateCandidate, bool) {
	// Canonical ordering keeps output identical regardless of input order.
	if a.ID > b.ID {
		a, b = b, a
	}

	if catalogInverses(g, a.Predicate, b.Predicate) {
		return model.DuplicateCandidate{}, false
	}

	sim := PredicateSimilarity(a.Predicate, b.Predicate)

	var confidence model.Confidence
	switch {
	case sim >= duplicateHighThreshold:
		confidence = model.ConfidenceHigh
	case sim >= duplicateMediumThreshold:
		confidence = model.ConfidenceMedium
	case sim >= duplicateLowThreshold:
		confidence = model.ConfidenceLow
	default:
		return model.DuplicateCandidate{}, false
	}

	// Other predicates between the same endpoints are counter-evidence: a
	// pair that deliberately carries many distinct predicates is less likely
	// to have grown an accidental duplicate. Surfaced as context only.
	siblingCount := siblingTotal - 2

	return model.DuplicateCandidate{
		RelationshipA:  a.ID,
		RelationshipB:  b.ID,
		SourceType:     a.SourceType,
		DestType:       a.DestType,
		Confidence:     confidence,
		AlignmentScore: model.AlignmentFromConfidence(confidence),
		Similarity:     sim,
		SiblingCount:   siblingCount,
		Reasoning: fmt.Sprintf("predicates %q and %q overlap (similarity %.2f) between %s and %s; %d other predicate(s) on this pair",
			a.Predicate, b.Predicate, sim, a.SourceType, a.DestType, siblingCount),
	}, true
}

// catalogInverses reports whether two predicates are declared as each
// other's inverse in the catalog.
func catalogInverses(g *schema.Graph, p, q string) bool {
	if pp, ok := g.Predicates[p]; ok && pp.Inverse == q {
		return true
	}
	if qq, ok := g.Predicates[q]; ok && qq.Inverse == p {
		return true
	}
	return false
}

// PredicateSimilarity measures textual overlap of two predicate names in
// [0,1]. It takes the max of token-set Jaccard (hyphen/underscore tokens)
// and character-bigram Dice, which catches both shared-word predicates
// ("stored-in" vs "stores-in") and near-spellings. Deterministic and
// symmetric.
func PredicateSimilarity(p, q string) float64 {
	if p == q {
		return 1.0
	}
	return max(tokenJaccard(p, q), bigramDice(p, q))
}

func tokenJaccard(p, q string) float64 {
	pt := tokenSet(p)
	qt := tokenSet(q)
	if len(pt) == 0 || len(qt) == 0 {
		return 0
	}
	intersection := 0
	for tok := range pt {
		if qt[tok] {
			intersection++
		}
	}
	union := len(pt) + len(qt) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	}) {
		set[tok] = true
	}
	return set
}

func bigramDice(p, q string) float64 {
	pb := bigrams(strings.ToLower(p))
	qb := bigrams(strings.ToLower(q))
	if len(pb) == 0 || len(qb) == 0 {
		return 0
	}
	overlap := 0
	for gram, n := range pb {
		if m, ok := qb[gram]; ok {
			overlap += min(n, m)
		}
	}
	total := 0
	for _, n := range pb {
		total += n
	}
	for _, n := range qb {
		total += n
	}
	return 2.0 * float64(overlap) / float64(total)
}

func bigrams(s string) map[string]int {
	grams := make(map[string]int)
	for i := 0; i+2 <= len(s); i++ {
		grams[s[i:i+2]]++
	}
	return grams
}
