// internal/app/system/search/search.go
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// MinSimilarity is the per-token similarity a typo'd query word needs to
// count as a match (1 - distance/longer length).
const MinSimilarity = 0.6

// Match is a product with its relevance score in (0, 1].
type Match struct {
	Product models.Product
	Score   float64
}

// Rank scores products against a free-text query. Substring hits on the
// name rank above category hits, which rank above fuzzy token matches.
// Every query token must match something for a fuzzy hit. An empty query
// returns every product with score 1 in the input order.
func Rank(products []models.Product, query string) []Match {
	q := text.Fold(strings.TrimSpace(query))
	if q == "" {
		out := make([]Match, len(products))
		for i, p := range products {
			out[i] = Match{Product: p, Score: 1}
		}
		return out
	}
	qTokens := strings.Fields(q)

	var out []Match
	for _, p := range products {
		if s := score(p, q, qTokens); s > 0 {
			out = append(out, Match{Product: p, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return text.Fold(out[i].Product.Name) < text.Fold(out[j].Product.Name)
	})
	return out
}

// Products is Rank without the scores.
func Products(products []models.Product, query string) []models.Product {
	ranked := Rank(products, query)
	out := make([]models.Product, len(ranked))
	for i, m := range ranked {
		out[i] = m.Product
	}
	return out
}

func score(p models.Product, q string, qTokens []string) float64 {
	name := text.Fold(p.Name)
	category := text.Fold(p.Category)

	switch {
	case name == q:
		return 1
	case strings.HasPrefix(name, q):
		return 0.95
	case strings.Contains(name, q):
		return 0.9
	case category != "" && strings.Contains(category, q):
		return 0.7
	}

	candidates := append(strings.Fields(name), strings.Fields(category)...)
	if len(candidates) == 0 {
		return 0
	}
	var total float64
	for _, qt := range qTokens {
		best := 0.0
		for _, c := range candidates {
			if sim := similarity(qt, c); sim > best {
				best = sim
			}
		}
		if best < MinSimilarity {
			return 0
		}
		total += best
	}
	return 0.6 * total / float64(len(qTokens))
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if strings.HasPrefix(b, a) {
		return 0.9
	}
	longer := len([]rune(a))
	if n := len([]rune(b)); n > longer {
		longer = n
	}
	if longer == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longer)
}
