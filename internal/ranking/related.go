// Package ranking scores content items against each other. Scoring is a fixed
// weighted sum over taxonomy overlap plus a capped recency bonus, so the same
// inputs always produce the same ordering.
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/minbar-platform/backend/internal/models"
)

// Weights configures the similarity score. These are deliberate configuration,
// not hidden constants: a deployment can tune them as long as SharedCategory
// stays above SharedTag (category overlap is the stronger relatedness signal).
type Weights struct {
	SameType        float64
	SharedCategory  float64
	SharedTag       float64
	RecencyMax      float64
	RecencyHalfLife time.Duration
}

// DefaultWeights are the production weights.
var DefaultWeights = Weights{
	SameType:        10,
	SharedCategory:  8,
	SharedTag:       3,
	RecencyMax:      5,
	RecencyHalfLife: 30 * 24 * time.Hour,
}

// ScoredContent pairs a candidate with its similarity score.
type ScoredContent struct {
	Content models.ContentItem `json:"content"`
	Score   float64            `json:"score"`
}

// Ranker orders candidate content by similarity to a source item.
type Ranker struct {
	weights Weights
	// now is injectable so the recency term is deterministic under test.
	now func() time.Time
}

// NewRanker creates a Ranker with the given weights.
func NewRanker(w Weights) *Ranker {
	return &Ranker{weights: w, now: time.Now}
}

// Rank scores every eligible candidate against source and returns up to limit
// results, highest score first, ties broken by newer created_at, then by id so
// the order is total. The source itself and unpublished candidates are never
// returned.
func (r *Ranker) Rank(source models.ContentItem, pool []models.ContentItem, limit int) []ScoredContent {
	now := r.now()

	scored := make([]ScoredContent, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == source.ID || !candidate.Published {
			continue
		}
		scored = append(scored, ScoredContent{
			Content: candidate,
			Score:   r.score(source, candidate, now),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ci, cj := scored[i].Content, scored[j].Content
		if !ci.CreatedAt.Equal(cj.CreatedAt) {
			return ci.CreatedAt.After(cj.CreatedAt)
		}
		return ci.ID.Hex() < cj.ID.Hex()
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (r *Ranker) score(source, candidate models.ContentItem, now time.Time) float64 {
	var score float64
	if candidate.ContentTypeID == source.ContentTypeID {
		score += r.weights.SameType
	}
	score += r.weights.SharedCategory * float64(sharedCategories(source, candidate))
	score += r.weights.SharedTag * float64(sharedTags(source.Tags, candidate.Tags))
	score += r.recencyBonus(candidate.CreatedAt, now)
	return score
}

func sharedCategories(source, candidate models.ContentItem) int {
	ids := make(map[uint]struct{}, len(source.Categories))
	for _, c := range source.Categories {
		ids[c.ID] = struct{}{}
	}
	shared := 0
	for _, c := range candidate.Categories {
		if _, ok := ids[c.ID]; ok {
			shared++
		}
	}
	return shared
}

// sharedTags counts case-insensitive exact tag matches.
func sharedTags(source, candidate []string) int {
	tags := make(map[string]struct{}, len(source))
	for _, t := range source {
		tags[strings.ToLower(t)] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(candidate))
	for _, t := range candidate {
		lower := strings.ToLower(t)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		if _, ok := tags[lower]; ok {
			shared++
		}
	}
	return shared
}

// recencyBonus decays monotonically with age and is capped at RecencyMax: a
// brand-new item gets the full bonus, an item one half-life old gets half.
func (r *Ranker) recencyBonus(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	halfLives := float64(age) / float64(r.weights.RecencyHalfLife)
	return r.weights.RecencyMax / (1 + halfLives)
}

// Relevance tiers. Presentation only: bucketing never affects ordering.
const (
	TierVeryHigh = "very_high"
	TierHigh     = "high"
	TierModerate = "moderate"
	TierWeak     = "weak"
)

// RelevanceTier buckets a raw score into a display tier.
func RelevanceTier(score float64) string {
	switch {
	case score >= 20:
		return TierVeryHigh
	case score >= 12:
		return TierHigh
	case score >= 5:
		return TierModerate
	default:
		return TierWeak
	}
}
