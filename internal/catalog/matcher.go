package catalog

import "strings"

// MatchType records which strategy resolved a line item.
type MatchType string

const (
	MatchExact              MatchType = "exact"
	MatchExactNormalized    MatchType = "exact_normalized"
	MatchSubstringInProduct MatchType = "substring_in_product"
	MatchProductInSubstring MatchType = "product_in_substring"
	MatchMultiWord          MatchType = "multi_word_match"
	MatchPartialWord        MatchType = "partial_word_match"
	MatchNone               MatchType = "no_match"
)

// Match is the outcome of resolving one free-text name. Product is nil when
// Type is MatchNone.
type Match struct {
	Product *Product
	Type    MatchType
}

func (m Match) Matched() bool { return m.Product != nil }

// Strategy is one tier of the matching pipeline. ok=false passes the name
// on to the next tier.
type Strategy interface {
	Match(ix *Index, name string) (m Match, ok bool)
}

type StrategyFunc func(ix *Index, name string) (Match, bool)

func (f StrategyFunc) Match(ix *Index, name string) (Match, bool) { return f(ix, name) }

// Matcher runs its strategies in order; the first hit wins.
type Matcher struct {
	strategies []Strategy
}

// NewMatcher builds a matcher over the given tiers, or over
// DefaultStrategies when none are given.
func NewMatcher(strategies ...Strategy) *Matcher {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Matcher{strategies: strategies}
}

func DefaultStrategies() []Strategy {
	return []Strategy{
		StrategyFunc(ExactName),
		StrategyFunc(NormalizedName),
		StrategyFunc(Substring),
		StrategyFunc(WordOverlap),
	}
}

func (m *Matcher) Match(ix *Index, name string) Match {
	if ix == nil || ix.Len() == 0 {
		return Match{Type: MatchNone}
	}
	for _, s := range m.strategies {
		if res, ok := s.Match(ix, name); ok {
			return res
		}
	}
	return Match{Type: MatchNone}
}

func hit(p Product, t MatchType) (Match, bool) {
	return Match{Product: &p, Type: t}, true
}

func ExactName(ix *Index, name string) (Match, bool) {
	if p, ok := ix.Exact(name); ok {
		return hit(p, MatchExact)
	}
	return Match{}, false
}

func NormalizedName(ix *Index, name string) (Match, bool) {
	if Normalize(name) == "" {
		return Match{}, false
	}
	if p, ok := ix.Normalized(name); ok {
		return hit(p, MatchExactNormalized)
	}
	return Match{}, false
}

// Substring checks both containment directions against each product in
// catalog order.
func Substring(ix *Index, name string) (Match, bool) {
	needle := Canonical(name)
	if needle == "" {
		return Match{}, false
	}
	for i, p := range ix.Products() {
		c := ix.canonical(i)
		if c == "" {
			continue
		}
		if strings.Contains(c, needle) {
			return hit(p, MatchSubstringInProduct)
		}
		if strings.Contains(needle, c) {
			return hit(p, MatchProductInSubstring)
		}
	}
	return Match{}, false
}

// WordOverlap scores every product by the words it shares with name:
// one point per overlapping or partially overlapping word, plus half a
// point per word found anywhere in the product name. The best score of at
// least 1 wins; ties keep the earlier product.
func WordOverlap(ix *Index, name string) (Match, bool) {
	words := Words(name)
	if len(words) == 0 {
		return Match{}, false
	}

	whole := make(map[int]int)
	for _, w := range dedupe(words) {
		for _, pos := range ix.WithToken(w) {
			whole[pos]++
		}
	}

	best, bestScore, bestWhole := -1, 0.0, 0
	for i := range ix.Products() {
		score := wordScore(words, ix.words(i), ix.canonical(i))
		if score >= 1 && score > bestScore {
			best, bestScore, bestWhole = i, score, whole[i]
		}
	}
	if best < 0 {
		return Match{}, false
	}
	if bestWhole >= 2 {
		return hit(ix.Products()[best], MatchMultiWord)
	}
	return hit(ix.Products()[best], MatchPartialWord)
}

func wordScore(itemWords, productWords []string, productName string) float64 {
	var overlap, contained int
	for _, w := range itemWords {
		for _, p := range productWords {
			if w == p || strings.Contains(p, w) || strings.Contains(w, p) {
				overlap++
				break
			}
		}
		if strings.Contains(productName, w) {
			contained++
		}
	}
	return float64(overlap) + 0.5*float64(contained)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
