package match

// Dictionary is the immutable lookup configuration consumed by the matcher:
// a many-to-one synonym table widening recall across languages and a
// stopword set filtering function words. It is provided by the caller and
// never mutated.
type Dictionary struct {
	Synonyms  map[string]string
	Stopwords map[string]struct{}
}

// TokenSet is a token together with its optional canonical synonym.
type TokenSet struct {
	token   string
	synonym string
}

// Variants returns the token and, when present, its synonym.
func (t TokenSet) Variants() []string {
	if t.synonym == "" || t.synonym == t.token {
		return []string{t.token}
	}
	return []string{t.token, t.synonym}
}

// IsStopword reports whether the token is filtered out before matching.
func (d Dictionary) IsStopword(token string) bool {
	if d.Stopwords == nil {
		return false
	}
	_, ok := d.Stopwords[token]
	return ok
}

// Expand maps each token to its token set, attaching the canonical synonym
// when the table has one.
func (d Dictionary) Expand(tokens []string) []TokenSet {
	out := make([]TokenSet, 0, len(tokens))
	for _, tok := range tokens {
		ts := TokenSet{token: tok}
		if d.Synonyms != nil {
			if canonical, ok := d.Synonyms[tok]; ok {
				ts.synonym = canonical
			}
		}
		out = append(out, ts)
	}
	return out
}

// DefaultDictionary returns the built-in French/English table used when the
// configuration collaborator supplies nothing else. Keys are normalised,
// stemmed tokens.
func DefaultDictionary() Dictionary {
	return Dictionary{
		Synonyms: map[string]string{
			"fromage":   "cheese",
			"pain":      "bread",
			"lait":      "milk",
			"beurre":    "butter",
			"vin":       "wine",
			"biere":     "beer",
			"pomme":     "apple",
			"poire":     "pear",
			"poulet":    "chicken",
			"boeuf":     "beef",
			"porc":      "pork",
			"poisson":   "fish",
			"sucre":     "sugar",
			"sel":       "salt",
			"oeuf":      "egg",
			"chocolat":  "chocolate",
			"cafe":      "coffee",
			"gateau":    "cake",
			"legume":    "vegetable",
			"huile":     "oil",
			"farine":    "flour",
			"riz":       "rice",
			"jambon":    "ham",
			"creme":     "cream",
			"miel":      "honey",
			"eau":       "water",
			"jus":       "juice",
			"facture":   "invoice",
			"livraison": "delivery",
		},
		Stopwords: map[string]struct{}{
			"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {},
			"du": {}, "de": {}, "et": {}, "ou": {}, "au": {}, "aux": {},
			"avec": {}, "pour": {}, "sur": {}, "dans": {}, "par": {},
			"ce": {}, "cette": {}, "son": {}, "sa": {}, "ses": {}, "en": {},
			"que": {}, "qui": {},
			"the": {}, "an": {}, "of": {}, "and": {}, "or": {}, "for": {},
			"with": {}, "in": {}, "on": {}, "to": {}, "at": {}, "by": {},
		},
	}
}
