package usecase

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/menucost/backend/internal/domain"
)

// MatcherConfig holds configuration for the product matcher
type MatcherConfig struct {
	MinScore           float64
	EnableDebugLogging bool
}

// ProductMatcher ranks catalog offers against an ingredient's free-text
// name. It is the fallback path only: ingredients carrying a base-product
// id are resolved by direct id lookup and never reach fuzzy matching.
type ProductMatcher struct {
	minScore           float64
	enableDebugLogging bool
}

// NewProductMatcher creates a new product matcher with the given configuration
func NewProductMatcher(config MatcherConfig) *ProductMatcher {
	minScore := config.MinScore
	if minScore <= 0 {
		// Authoritative server-side threshold. The cost resolver applies a
		// promotion/price tie-break afterward, so recall beats precision here.
		minScore = 30
	}

	return &ProductMatcher{
		minScore:           minScore,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ScoredOffer pairs a candidate offer with its similarity score.
type ScoredOffer struct {
	Offer domain.Offer
	Score float64
}

// FindCandidates scores every offer against the ingredient name, drops the
// ones below the threshold, and returns the rest sorted by descending score.
func (m *ProductMatcher) FindCandidates(ingredientName string, offers []domain.Offer) []ScoredOffer {
	name := strings.TrimSpace(ingredientName)
	if name == "" || len(offers) == 0 {
		return nil
	}

	var candidates []ScoredOffer
	for _, offer := range offers {
		score := SimilarityScore(name, offer.Description)

		if m.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q: %.0f", name, offer.Description, score)
		}

		if score < m.minScore {
			continue
		}
		candidates = append(candidates, ScoredOffer{Offer: offer, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// SimilarityScore computes a 0-100 similarity between an ingredient name
// and an offer description. Exact match (case-insensitive, trimmed) scores
// 100, substring containment either direction scores 85, otherwise the
// score is the rounded word-overlap ratio 100 * 2*common / (len(a)+len(b)).
func SimilarityScore(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))

	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 100
	}
	if strings.Contains(q, c) || strings.Contains(c, q) {
		return 85
	}

	queryWords := strings.Fields(q)
	candidateWords := strings.Fields(c)
	if len(queryWords) == 0 || len(candidateWords) == 0 {
		return 0
	}

	common := 0
	for _, qw := range queryWords {
		for _, cw := range candidateWords {
			if wordsMatch(qw, cw) {
				common++
				break
			}
		}
	}

	return math.Round(100 * 2 * float64(common) / float64(len(queryWords)+len(candidateWords)))
}

// wordsMatch reports whether two words count as common: either word of
// length > 2 containing the other as a substring.
func wordsMatch(a, b string) bool {
	if len(a) > 2 && strings.Contains(b, a) {
		return true
	}
	if len(b) > 2 && strings.Contains(a, b) {
		return true
	}
	return false
}
