package match

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func product(name, description, code string) Product {
	return Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Code:        code,
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{product("Gruyère AOP", "", "GRY-01")}
	if got := m.Search("", catalog); got != nil {
		t.Fatalf("expected nil for empty query, got %d results", len(got))
	}
	if got := m.Search("   ", catalog); got != nil {
		t.Fatalf("expected nil for blank query, got %d results", len(got))
	}
}

func TestSearchExactCodeWins(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{
		product("Gruyère râpé 200g", "fromage suisse", "FRO-200"),
		product("FRO-200 lookalike product name", "", "XYZ-999"),
	}
	results := m.Search("fro-200", catalog)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Product.Code != "FRO-200" {
		t.Fatalf("expected exact code match first, got %q", results[0].Product.Code)
	}
	if results[0].Score != scoreExactCode {
		t.Fatalf("expected exact code score %v, got %v", scoreExactCode, results[0].Score)
	}
}

func TestSearchPartialCodeAboveFuzzy(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{
		product("Gruyère râpé", "", "FRO-200"),
		product("fro product", "", ""),
	}
	results := m.Search("fro", catalog)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Product.Code != "FRO-200" {
		t.Fatalf("expected partial code match first, got %q", results[0].Product.Name)
	}
	if results[0].Score != scorePartialCode {
		t.Fatalf("expected partial code score %v, got %v", scorePartialCode, results[0].Score)
	}
}

func TestSearchCrossLingualSynonym(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{
		product("Swiss cheese platter", "assorted alpine cheese", ""),
		product("Motor oil 5W-30", "", ""),
	}
	results := m.Search("fromage", catalog)
	if len(results) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(results))
	}
	if results[0].Product.Name != "Swiss cheese platter" {
		t.Fatalf("unexpected match %q", results[0].Product.Name)
	}
	if results[0].ExactTokenMatches != 1 {
		t.Fatalf("expected synonym expansion to count as exact overlap, got %d", results[0].ExactTokenMatches)
	}
}

func TestSearchTypoTolerance(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{product("Cheese fondue mix", "", "")}
	results := m.Search("chese fondu", catalog)
	if len(results) != 1 {
		t.Fatalf("expected typo-tolerant match, got %d results", len(results))
	}
	if results[0].Score < minScore {
		t.Fatalf("score %v below floor", results[0].Score)
	}
}

func TestSearchStopwordsAndPlurals(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{product("Pomme Golden", "pommes du Valais", "")}
	results := m.Search("les pommes", catalog)
	if len(results) != 1 {
		t.Fatalf("expected one match, got %d", len(results))
	}
	if results[0].ExactTokenMatches != 1 {
		t.Fatalf("expected stemmed exact match, got %d", results[0].ExactTokenMatches)
	}
}

func TestSearchBoundedAndSorted(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	var catalog []Product
	for i := 0; i < 20; i++ {
		catalog = append(catalog, product(fmt.Sprintf("Fondue kit %02d", i), "", ""))
	}
	results := m.Search("fondue", catalog)
	if len(results) != DefaultLimit {
		t.Fatalf("expected %d results, got %d", DefaultLimit, len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted by non-increasing score at %d", i)
		}
		if results[i].Score == results[i-1].Score &&
			results[i].ExactTokenMatches == results[i-1].ExactTokenMatches &&
			results[i].Product.Name < results[i-1].Product.Name {
			t.Fatalf("name tie-break violated at %d", i)
		}
	}
}

func TestSearchRelevanceFloor(t *testing.T) {
	m := Matcher{Dict: DefaultDictionary()}
	catalog := []Product{product("Imprimante laser", "toner noir", "")}
	if results := m.Search("fondue moitie", catalog); len(results) != 0 {
		t.Fatalf("expected no matches below relevance floor, got %d", len(results))
	}
}

func TestLevenshteinSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"fromage", "fromages"},
		{"kitten", "sitting"},
		{"", "abc"},
		{"tomate", "tomato"},
	}
	for _, p := range pairs {
		if Levenshtein(p[0], p[1]) != Levenshtein(p[1], p[0]) {
			t.Fatalf("levenshtein not symmetric for %q/%q", p[0], p[1])
		}
	}
	if Levenshtein("kitten", "sitting") != 3 {
		t.Fatalf("unexpected distance for kitten/sitting: %d", Levenshtein("kitten", "sitting"))
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"a", "fromage", "été"} {
		if Similarity(s, s) != 1 {
			t.Fatalf("similarity(%q, %q) != 1", s, s)
		}
	}
	if Similarity("", "abc") != 0 {
		t.Fatal("similarity with empty string must be 0")
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	if got := Normalize("Gruyère râpé, 200g!"); got != "gruyere rape 200g" {
		t.Fatalf("unexpected normalisation: %q", got)
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"pommes": "pomme",
		"glass":  "glass",
		"les":    "les",
		"vins":   "vin",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Fatalf("stem(%q) = %q, want %q", in, got, want)
		}
	}
}
