package match

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultLimit bounds the number of returned candidates.
	DefaultLimit = 8

	// scoreExactCode and scorePartialCode sit in a disjoint range above any
	// fuzzy score so scanner-style code entry always wins.
	scoreExactCode   = 1000.0
	scorePartialCode = 900.0

	// minScore is the relevance floor below which candidates are dropped.
	minScore = 0.5
	// exactTokenBoost rewards literal token overlap on top of fuzzy closeness.
	exactTokenBoost = 0.25
)

// Product is read-only reference data supplied by the catalog collaborator.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        string
	Unit        string
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Candidate is one ranked search result.
type Candidate struct {
	Product           Product
	Score             float64
	ExactTokenMatches int
}

// Matcher ranks catalog products against a free-text query. It holds no
// catalog state; the dictionary is immutable configuration.
type Matcher struct {
	Dict  Dictionary
	Limit int
}

// Search returns at most Limit candidates ordered by score, exact token
// matches, then product name. An empty query yields an empty result.
func (m Matcher) Search(query string, catalog []Product) []Candidate {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(catalog) == 0 {
		return nil
	}
	limit := m.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryTokens := m.Dict.Expand(Tokenize(trimmed, m.Dict))

	var candidates []Candidate
	for _, p := range catalog {
		c, ok := m.score(trimmed, queryTokens, p)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ExactTokenMatches != b.ExactTokenMatches {
			return a.ExactTokenMatches > b.ExactTokenMatches
		}
		if a.Product.Name != b.Product.Name {
			return a.Product.Name < b.Product.Name
		}
		return a.Product.ID.String() < b.Product.ID.String()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (m Matcher) score(query string, queryTokens []TokenSet, p Product) (Candidate, bool) {
	code := strings.TrimSpace(p.Code)
	if code != "" {
		lowerCode := strings.ToLower(code)
		lowerQuery := strings.ToLower(query)
		if lowerCode == lowerQuery {
			return Candidate{Product: p, Score: scoreExactCode, ExactTokenMatches: 1}, true
		}
		if strings.Contains(lowerCode, lowerQuery) {
			return Candidate{Product: p, Score: scorePartialCode}, true
		}
	}

	if len(queryTokens) == 0 {
		return Candidate{}, false
	}

	text := strings.Join([]string{p.Name, p.Description, p.Code}, " ")
	productTokens := m.Dict.Expand(Tokenize(text, m.Dict))
	if len(productTokens) == 0 {
		return Candidate{}, false
	}

	total := 0.0
	exact := 0
	for _, qt := range queryTokens {
		best := 0.0
		matchedExactly := false
		for _, qv := range qt.Variants() {
			for _, pt := range productTokens {
				for _, pv := range pt.Variants() {
					sim := Similarity(qv, pv)
					if sim > best {
						best = sim
					}
					if qv == pv {
						matchedExactly = true
					}
				}
			}
		}
		total += best
		if matchedExactly {
			exact++
		}
	}

	score := total/float64(len(queryTokens)) + exactTokenBoost*float64(exact)
	if score < minScore {
		return Candidate{}, false
	}
	return Candidate{Product: p, Score: score, ExactTokenMatches: exact}, true
}

// Similarity reports how close two tokens are: 1 when one contains the
// other, otherwise 1 minus the normalised Levenshtein distance.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	return 1 - float64(Levenshtein(a, b))/float64(max)
}
