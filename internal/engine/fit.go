package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"pathway-workers/internal/models"
)

// FitScore is the weighted 0-100 fit of one profile to one passed rule.
type FitScore struct {
	FitScore        float64
	ComponentScores models.ComponentScores
	Explanation     models.Explanation
}

// ScoreFit combines the five component scorers for a rule that already
// passed the gate. Component maxima: interest 30, academic 25, budget 20,
// english 15, constraints 10.
func ScoreFit(rule RuleView, p *models.StudentProfile) FitScore {
	interest := scoreInterest(rule, p)
	academic := scoreAcademic(rule, p)
	budget := scoreBudget(rule, p)
	english := scoreEnglish(rule, p)
	constraints := scoreConstraints(rule, p)

	total := round2(interest.Score + academic.Score + budget.Score + english.Score + constraints.Score)

	reason := fmt.Sprintf(
		"Priority %d; interest %.1f, academic %.1f, budget %.1f, english %.1f, constraints %.1f.",
		rule.PriorityWeight(),
		interest.Score, academic.Score, budget.Score, english.Score, constraints.Score,
	)

	return FitScore{
		FitScore: total,
		ComponentScores: models.ComponentScores{
			Interest:    round2(interest.Score),
			Academic:    round2(academic.Score),
			Budget:      round2(budget.Score),
			English:     round2(english.Score),
			Constraints: round2(constraints.Score),
		},
		Explanation: models.Explanation{
			MatchedConditions:    concatFragments(interest.Matched, academic.Matched, budget.Matched, english.Matched, constraints.Matched),
			BorderlineConditions: concatFragments(interest.Borderline, academic.Borderline, budget.Borderline, english.Borderline, constraints.Borderline),
			MissingConditions:    concatFragments(interest.Missing, academic.Missing, budget.Missing, english.Missing, constraints.Missing),
			RankingReason:        reason,
		},
	}
}

// scoreInterest awards up to 30 points for overlap between the rule's
// interest tags and the student's. A rule with no tags is treated as
// flexible and scores a neutral 15.
func scoreInterest(rule RuleView, p *models.StudentProfile) models.ScoreDetail {
	ruleTags := normSet(rule.InterestTags())
	if len(ruleTags) == 0 {
		return models.ScoreDetail{Score: 15.0, Matched: []string{"Flexible interest tags"}}
	}
	studentTags := normSet(p.InterestTags)

	overlap := intersection(ruleTags, studentTags)
	ratio := float64(len(overlap)) / float64(len(ruleTags))

	detail := models.ScoreDetail{Score: 30.0 * ratio}
	if len(overlap) > 0 {
		detail.Matched = []string{fmt.Sprintf("Interest match: %s", strings.Join(overlap, ", "))}
	}
	if ratio > 0 && ratio < 1 {
		detail.Borderline = []string{"Partial interest overlap"}
	}
	if missingTags := difference(ruleTags, studentTags); len(missingTags) > 0 {
		detail.Missing = []string{fmt.Sprintf("Interest tags missing: %s", strings.Join(missingTags, ", "))}
	}
	return detail
}

// scoreAcademic awards up to 25 points for headroom above the rule's
// academic baseline.
func scoreAcademic(rule RuleView, p *models.StudentProfile) models.ScoreDetail {
	var detail models.ScoreDetail
	score := 0.0

	if p.StudentLevel == "SPM" {
		if minCredits, ok := rule.MinSPMCredits(); ok && minCredits > 0 {
			credits := p.SPMCredits
			ratio := math.Min(1.2, float64(credits)/float64(minCredits))
			score += math.Min(15.0, ratio*12.5)
			if credits > minCredits {
				detail.Matched = append(detail.Matched, "Credits above baseline")
			} else if credits == minCredits {
				detail.Borderline = append(detail.Borderline, "Credits at baseline")
			}
		}

		if required := rule.RequiredSubjects(); len(required) > 0 {
			studentGrades := lowerKeyed(p.Subjects)
			satisfied := 0
			for _, subject := range sortedKeys(required) {
				got := studentGrades[strings.ToLower(subject)]
				if got != "" && gradeMeets(got, required[subject]) {
					satisfied++
				} else {
					detail.Missing = append(detail.Missing, fmt.Sprintf("Subject strengthen needed: %s", subject))
				}
			}
			score += 10.0 * float64(satisfied) / float64(len(required))
			if satisfied == len(required) {
				detail.Matched = append(detail.Matched, "All key subjects met")
			}
		}
	}

	if p.StudentLevel == "Diploma" {
		if minCGPA, ok := rule.MinCGPA(); ok && minCGPA != 0 {
			cgpa := p.CGPA
			ratio := 1.0
			if minCGPA > 0 {
				ratio = math.Min(1.25, cgpa/minCGPA)
			}
			score = math.Min(25.0, ratio*20.0)
			if cgpa > minCGPA+0.1 {
				detail.Matched = append(detail.Matched, "CGPA above baseline")
			} else if cgpa >= minCGPA {
				detail.Borderline = append(detail.Borderline, "CGPA near baseline")
			} else {
				detail.Missing = append(detail.Missing, "CGPA below desired range")
			}
		} else {
			score = 18.0
		}
	}

	detail.Score = math.Min(score, 25.0)
	return detail
}

// scoreBudget awards up to 20 points for monthly budget against the rule's
// expected cost band.
func scoreBudget(rule RuleView, p *models.StudentProfile) models.ScoreDetail {
	budgetMin := rule.BudgetMin()
	budgetMax := rule.BudgetMax()

	if budgetMin == 0 && budgetMax == 0 {
		return models.ScoreDetail{Score: 15.0, Matched: []string{"Budget flexible"}}
	}

	if budgetMin > 0 && p.BudgetMonthly < budgetMin {
		if float64(p.BudgetMonthly)/float64(budgetMin) >= 0.85 {
			return models.ScoreDetail{
				Score:      10.0,
				Borderline: []string{"Budget slightly tight"},
				Missing:    []string{"Consider scholarship or part-time support"},
			}
		}
		return models.ScoreDetail{Score: 2.0, Missing: []string{"Budget significantly below pathway cost"}}
	}

	if budgetMax > 0 && p.BudgetMonthly > budgetMax {
		return models.ScoreDetail{Score: 14.0, Matched: []string{"Budget exceeds expected cost range"}}
	}

	return models.ScoreDetail{Score: 20.0, Matched: []string{"Budget aligned with pathway"}}
}

// scoreEnglish awards up to 15 points for English readiness, with a small
// bonus for strong test evidence (score 75 or above).
func scoreEnglish(rule RuleView, p *models.StudentProfile) models.ScoreDetail {
	hasStrongTest := p.EnglishTestScore != nil && *p.EnglishTestScore >= 75

	required := rule.EnglishMin()
	if required == "" {
		score := 10.0
		if hasStrongTest {
			score += 3.0
		}
		return models.ScoreDetail{Score: score, Matched: []string{"No strict English minimum"}}
	}

	got := englishLevels[p.EnglishSelf]
	need, ok := englishLevels[required]
	if !ok {
		need = 2
	}

	if got >= need {
		bonus := 0.0
		if hasStrongTest {
			bonus = 3.0
		}
		label := "English meets minimum"
		if got > need {
			label = "English above minimum"
		}
		return models.ScoreDetail{Score: math.Min(15.0, 12.0+bonus), Matched: []string{label}}
	}

	if got == need-1 {
		return models.ScoreDetail{
			Score:      7.0,
			Borderline: []string{"English one level below requirement"},
			Missing:    []string{"Strengthen English proficiency"},
		}
	}

	return models.ScoreDetail{Score: 2.0, Missing: []string{"English below pathway baseline"}}
}

// scoreConstraints starts at 10 and deducts for friction between the
// student's constraints and the rule's, never dropping below zero.
func scoreConstraints(rule RuleView, p *models.StudentProfile) models.ScoreDetail {
	constraints := rule.Constraints()
	var detail models.ScoreDetail
	score := 10.0

	if p.ScholarshipNeeded {
		band := strings.ToLower(rule.ScholarshipLikelihood())
		if band == "" {
			band = "medium"
		}
		switch band {
		case "high":
			detail.Matched = append(detail.Matched, "Scholarship-friendly pathway")
		case "medium":
			detail.Borderline = append(detail.Borderline, "Scholarship possible but competitive")
			score -= 2.5
		default:
			detail.Missing = append(detail.Missing, "Low scholarship likelihood")
			score -= 5.0
		}
	}

	allowsPartTime := constraintBool(constraints, "work_part_time_ok", true)
	if p.NeedWorkPartTime && !allowsPartTime {
		detail.Missing = append(detail.Missing, "Part-time work not recommended for this pathway")
		score -= 4.0
	} else if p.NeedWorkPartTime && allowsPartTime {
		detail.Matched = append(detail.Matched, "Part-time compatible")
	}

	if p.TimelineUrgency == "urgent" && constraintBool(constraints, "timeline_fast_track", false) {
		detail.Matched = append(detail.Matched, "Fast-track timeline fit")
	} else if p.TimelineUrgency == "urgent" {
		detail.Borderline = append(detail.Borderline, "Timeline may require bridging steps")
		score -= 1.5
	}

	if p.FamilyConstraints != "none" {
		detail.Borderline = append(detail.Borderline, "Family constraints require planning")
		score -= 1.0
	}

	detail.Score = math.Max(score, 0.0)
	return detail
}

func constraintBool(constraints map[string]interface{}, key string, def bool) bool {
	value, ok := constraints[key]
	if !ok || value == nil {
		return def
	}
	return cast.ToBool(value)
}

// concatFragments joins fragment lists into one non-nil slice so the JSON
// contract always carries arrays, never null.
func concatFragments(lists ...[]string) []string {
	size := 0
	for _, list := range lists {
		size += len(list)
	}
	out := make([]string, 0, size)
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}
