package metrics

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
)

// minCorrelationPairs gates the delivery/score correlation: below this many
// paired observations the coefficient is noise and is omitted.
const minCorrelationPairs = 10

// satisfactionThreshold is the lowest review score counted as satisfied.
const satisfactionThreshold = 4

// ExperienceMetrics covers review sentiment and delivery performance at the
// order level.
type ExperienceMetrics struct {
	AvgReviewScore     float64            `json:"avg_review_score"`
	MedianReviewScore  float64            `json:"median_review_score"`
	ScoreDistribution  map[string]float64 `json:"score_distribution"`
	SatisfactionRate   float64            `json:"satisfaction_rate_pct"`
	AvgDeliveryDays    float64            `json:"avg_delivery_days"`
	MedianDeliveryDays float64            `json:"median_delivery_days"`
	SpeedDistribution  map[string]float64 `json:"speed_distribution"`
	FastDeliveryRate   float64            `json:"fast_delivery_rate_pct"`
	ScoreBySpeed       map[string]float64 `json:"avg_score_by_speed,omitempty"`
	DeliveryScoreCorr  *float64           `json:"delivery_score_correlation,omitempty"`
	Warnings           []string           `json:"warnings,omitempty"`
}

type orderExperience struct {
	score    float64
	hasScore bool
	days     float64
	hasDays  bool
	speed    string
}

// Experience aggregates reviews and delivery durations per distinct order,
// so multi-item orders weigh once. Correlation between delivery days and
// review score is reported only past the minimum pair count.
func Experience(df dataframe.DataFrame, opts ...Option) (ExperienceMetrics, error) {
	o := buildOptions(opts)
	if err := requireColumns(df, o.OrderColumn); err != nil {
		return ExperienceMetrics{}, err
	}

	result := ExperienceMetrics{}
	orders := columnStrings(df, o.OrderColumn)

	var scores, days []float64
	var speeds []string
	if hasColumn(df, o.ScoreColumn) {
		scores = columnFloats(df, o.ScoreColumn)
	} else {
		result.Warnings = append(result.Warnings, "review scores unavailable")
	}
	if hasColumn(df, o.DeliveryDaysColumn) {
		days = columnFloats(df, o.DeliveryDaysColumn)
	} else {
		result.Warnings = append(result.Warnings, "delivery durations unavailable")
	}
	if hasColumn(df, o.SpeedColumn) {
		speeds = columnStrings(df, o.SpeedColumn)
	}

	perOrder := make(map[string]*orderExperience)
	for i, orderID := range orders {
		if isMissing(orderID) {
			continue
		}
		entry := perOrder[orderID]
		if entry == nil {
			entry = &orderExperience{}
			perOrder[orderID] = entry
		}
		if scores != nil && !isMissingFloat(scores[i]) {
			entry.score = scores[i]
			entry.hasScore = true
		}
		if days != nil && !isMissingFloat(days[i]) {
			entry.days = days[i]
			entry.hasDays = true
		}
		if speeds != nil && !isMissing(speeds[i]) {
			entry.speed = speeds[i]
		}
	}

	var orderScores, orderDays []float64
	var corrDays, corrScores []float64
	speedCounts := make(map[string]int)
	speedScoreSums := make(map[string]float64)
	speedScoreCounts := make(map[string]int)
	speedTotal := 0
	satisfied, fast := 0, 0
	for _, entry := range perOrder {
		if entry.hasScore {
			orderScores = append(orderScores, entry.score)
			if entry.score >= satisfactionThreshold {
				satisfied++
			}
		}
		if entry.hasDays {
			orderDays = append(orderDays, entry.days)
			if entry.days <= 3 {
				fast++
			}
		}
		if entry.speed != "" {
			speedCounts[entry.speed]++
			speedTotal++
			if entry.hasScore {
				speedScoreSums[entry.speed] += entry.score
				speedScoreCounts[entry.speed]++
			}
		}
		if entry.hasScore && entry.hasDays {
			corrScores = append(corrScores, entry.score)
			corrDays = append(corrDays, entry.days)
		}
	}

	if len(orderScores) > 0 {
		result.AvgReviewScore = round2(mean(orderScores))
		result.MedianReviewScore = round2(median(orderScores))
		result.SatisfactionRate = round2(ratio(satisfied, len(orderScores)) * 100)
		result.ScoreDistribution = make(map[string]float64, 5)
		counts := make(map[string]int)
		for _, s := range orderScores {
			counts[scoreLabel(s)]++
		}
		for label, count := range counts {
			result.ScoreDistribution[label] = round2(ratio(count, len(orderScores)))
		}
	}

	if len(orderDays) > 0 {
		result.AvgDeliveryDays = round2(mean(orderDays))
		result.MedianDeliveryDays = round2(median(orderDays))
		result.FastDeliveryRate = round2(ratio(fast, len(orderDays)) * 100)
	}

	if speedTotal > 0 {
		result.SpeedDistribution = make(map[string]float64, len(speedCounts))
		for speed, count := range speedCounts {
			result.SpeedDistribution[speed] = round2(ratio(count, speedTotal))
		}
	}
	if len(speedScoreCounts) > 0 {
		result.ScoreBySpeed = make(map[string]float64, len(speedScoreCounts))
		for speed, count := range speedScoreCounts {
			result.ScoreBySpeed[speed] = round2(speedScoreSums[speed] / float64(count))
		}
	}

	if coefficient, pairs := pearson(corrDays, corrScores); pairs > minCorrelationPairs && !isMissingFloat(coefficient) {
		result.DeliveryScoreCorr = float64Ptr(math.Round(coefficient*1000) / 1000)
	}
	return result, nil
}

func scoreLabel(score float64) string {
	return strconv.Itoa(int(score))
}
