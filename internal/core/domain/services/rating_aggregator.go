package services

import (
	"auctiondelivery/internal/core/domain/model/feedback"
)

// DefaultAbuseThreshold is the number of double-one ratings a rater may file before
// being flagged.
const DefaultAbuseThreshold = 3

// WeightedScore is one score with its rater weight.
type WeightedScore struct {
	Value  int
	Weight int
}

// Aggregate is a weighted average with the number of scores it covers.
type Aggregate struct {
	Average float64
	Count   int
}

// RatingAggregator computes Σ(weight×value)/Σ(weight) and the abuse signal.
type RatingAggregator struct {
	abuseThreshold int
}

func NewRatingAggregator(abuseThreshold int) RatingAggregator {
	if abuseThreshold <= 0 {
		abuseThreshold = DefaultAbuseThreshold
	}
	return RatingAggregator{abuseThreshold: abuseThreshold}
}

// WeightedAverage returns a zero aggregate for no scores.
func (RatingAggregator) WeightedAverage(scores []WeightedScore) Aggregate {
	var sum, weights int
	for _, s := range scores {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		sum += w * s.Value
		weights += w
	}
	if weights == 0 {
		return Aggregate{}
	}
	return Aggregate{Average: float64(sum) / float64(weights), Count: len(scores)}
}

// FoodScores extracts the food side of order ratings.
func FoodScores(ratings []feedback.Rating) []WeightedScore {
	scores := make([]WeightedScore, 0, len(ratings))
	for _, r := range ratings {
		scores = append(scores, WeightedScore{Value: r.FoodRating, Weight: r.Weight})
	}
	return scores
}

// DeliveryScores extracts the delivery side of order ratings.
func DeliveryScores(ratings []feedback.Rating) []WeightedScore {
	scores := make([]WeightedScore, 0, len(ratings))
	for _, r := range ratings {
		scores = append(scores, WeightedScore{Value: r.DeliveryRating, Weight: r.Weight})
	}
	return scores
}

// KnowledgeScores extracts knowledge-base scores and the number of zero flags.
func KnowledgeScores(ratings []feedback.KnowledgeRating) ([]WeightedScore, int) {
	scores := make([]WeightedScore, 0, len(ratings))
	flags := 0
	for _, r := range ratings {
		scores = append(scores, WeightedScore{Value: r.Value, Weight: r.Weight})
		if r.Value == 0 {
			flags++
		}
	}
	return scores, flags
}

// AbuseCount counts the rater's ratings with the lowest score on both axes.
func (RatingAggregator) AbuseCount(byRater []feedback.Rating) int {
	n := 0
	for _, r := range byRater {
		if r.IsAbusive() {
			n++
		}
	}
	return n
}

// IsAbuser reports whether the abuse count exceeds the threshold.
func (a RatingAggregator) IsAbuser(abuseCount int) bool {
	return abuseCount > a.abuseThreshold
}
