// Package scoring ranks scanned businesses by outreach priority. The scan
// sells website services, so the best lead is a reachable, well-reviewed
// business with no working site.
package scoring

import (
	"strings"
	"unicode"

	"github.com/octobees/lead-scanner/internal/entity"
)

const (
	categoryReach       = "contact_reach"
	categorySocial      = "social_presence"
	categoryReputation  = "reputation"
	categoryOpportunity = "opportunity"
)

// Priority buckets derived from the total score.
const (
	PriorityHot  = "hot"
	PriorityWarm = "warm"
	PriorityCold = "cold"
)

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int            `json:"total"`
	Priority  string         `json:"priority"`
	Breakdown map[string]int `json:"breakdown"`
}

// Score evaluates one business record. The scale runs 0 to 100.
func Score(b entity.Business) ScoreResult {
	breakdown := map[string]int{
		categoryReach:       scoreReach(b),
		categorySocial:      scoreSocial(b),
		categoryReputation:  scoreReputation(b),
		categoryOpportunity: scoreOpportunity(b),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Priority:  priorityFor(total),
		Breakdown: breakdown,
	}
}

func priorityFor(total int) string {
	switch {
	case total >= 70:
		return PriorityHot
	case total >= 40:
		return PriorityWarm
	default:
		return PriorityCold
	}
}

// scoreReach favors a direct phone line; Polish small businesses close deals
// on the phone, not over email.
func scoreReach(b entity.Business) int {
	score := 0
	if b.Phone != "" {
		score += 15
	}
	if b.Email != "" {
		score += 10
	}
	if score > 25 {
		return 25
	}
	return score
}

func scoreSocial(b entity.Business) int {
	score := 0
	for _, link := range []string{b.Facebook, b.Instagram, b.LinkedIn, b.Twitter} {
		if strings.TrimSpace(link) != "" {
			score += 5
		}
	}
	if score > 20 {
		return 20
	}
	return score
}

func scoreReputation(b entity.Business) int {
	score := 0
	if b.Rating != nil {
		switch {
		case *b.Rating >= 4.5:
			score += 15
		case *b.Rating >= 4.0:
			score += 10
		case *b.Rating >= 3.5:
			score += 5
		}
	}
	if b.Reviews != nil {
		switch {
		case *b.Reviews >= 50:
			score += 10
		case *b.Reviews >= 10:
			score += 5
		}
	}
	if score > 25 {
		return 25
	}
	return score
}

// scoreOpportunity is the inverse of web presence. No site at all is the
// prime target; a dead or parked site still signals an owner who once paid
// for one.
func scoreOpportunity(b entity.Business) int {
	score := 0
	switch {
	case b.Website == "":
		score += 20
	case !b.HasWebsite:
		score += 15
	}
	if hasCompleteAddress(b.Address) {
		score += 10
	}
	if score > 30 {
		return 30
	}
	return score
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
