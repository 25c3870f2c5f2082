package catalog

import (
	"strings"
	"unicode"
)

// minTokenLen is the shortest word that takes part in token matching.
const minTokenLen = 3

// Index is a read-only lookup view over one catalog snapshot. Build a new
// one whenever the catalog is refreshed.
type Index struct {
	products   []Product
	byID       map[string]int
	byName     map[string]int
	byNorm     map[string]int
	byCanon    []string
	tokens     map[string][]int
	tokenLists [][]string
}

func NewIndex(products []Product) *Index {
	ix := &Index{
		products:   make([]Product, len(products)),
		byID:       make(map[string]int, len(products)),
		byName:     make(map[string]int, len(products)),
		byNorm:     make(map[string]int, len(products)),
		byCanon:    make([]string, len(products)),
		tokens:     make(map[string][]int),
		tokenLists: make([][]string, len(products)),
	}
	copy(ix.products, products)

	for i, p := range ix.products {
		if _, ok := ix.byID[p.ID]; !ok && p.ID != "" {
			ix.byID[p.ID] = i
		}
		// first entry wins on duplicate names
		if _, ok := ix.byName[p.Name]; !ok {
			ix.byName[p.Name] = i
		}
		norm := Normalize(p.Name)
		if _, ok := ix.byNorm[norm]; !ok {
			ix.byNorm[norm] = i
		}
		ix.byCanon[i] = Canonical(p.Name)

		words := Words(p.Name)
		ix.tokenLists[i] = words
		seen := make(map[string]bool, len(words))
		for _, w := range words {
			if seen[w] {
				continue
			}
			seen[w] = true
			ix.tokens[w] = append(ix.tokens[w], i)
		}
	}
	return ix
}

func (ix *Index) Len() int { return len(ix.products) }

// Products returns the catalog in iteration order.
func (ix *Index) Products() []Product { return ix.products }

func (ix *Index) ByID(id string) (Product, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return Product{}, false
	}
	return ix.products[i], true
}

// Exact looks a product up by its name, byte for byte.
func (ix *Index) Exact(name string) (Product, bool) {
	i, ok := ix.byName[name]
	if !ok {
		return Product{}, false
	}
	return ix.products[i], true
}

// Normalized looks a product up by its lower-cased, trimmed name.
func (ix *Index) Normalized(name string) (Product, bool) {
	i, ok := ix.byNorm[Normalize(name)]
	if !ok {
		return Product{}, false
	}
	return ix.products[i], true
}

// WithToken returns the catalog positions whose name contains word, in
// catalog order.
func (ix *Index) WithToken(word string) []int { return ix.tokens[word] }

func (ix *Index) canonical(i int) string { return ix.byCanon[i] }

func (ix *Index) words(i int) []string { return ix.tokenLists[i] }

// Normalize lower-cases and trims a product name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Canonical is Normalize with punctuation folded to single spaces, so that
// "Panettone Classic - 1000gm" and "panettone classic 1000gm" compare equal.
func Canonical(name string) string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(f, " ")
}

// Words splits a name into canonical words of at least minTokenLen runes.
func Words(name string) []string {
	var out []string
	for _, w := range strings.Fields(Canonical(name)) {
		if len([]rune(w)) >= minTokenLen {
			out = append(out, w)
		}
	}
	return out
}
