package engine

import (
	"sort"

	"pathway-workers/internal/models"
)

// unlockSteps is the fixed remediation sequence offered whenever no rule
// passes the gate.
var unlockSteps = []string{
	"Improve the weakest academic prerequisite for your target pathway.",
	"Increase budget flexibility via scholarships, grants, or part-time planning.",
	"Strengthen English readiness with measurable weekly targets.",
	"Prioritize local pathways first, then reassess overseas options.",
	"Review constraints with a counselor to widen feasible options.",
}

// LocalFallbacks filters rules down to same-level pathways that keep
// Malaysia on the table, ordered by priority. These are the candidates for
// the alternative-pathways section of a recovery plan.
func LocalFallbacks(rules []RuleView, p *models.StudentProfile) []RuleView {
	fallbacks := make([]RuleView, 0, len(rules))
	for _, rule := range rules {
		if rule.StudentLevel() != p.StudentLevel {
			continue
		}
		if !setHas(normSet(rule.DestinationTags()), "malaysia") {
			continue
		}
		fallbacks = append(fallbacks, rule)
	}
	sort.SliceStable(fallbacks, func(i, j int) bool {
		return fallbacks[i].PriorityWeight() > fallbacks[j].PriorityWeight()
	})
	return fallbacks
}

// BuildRecoveryPlan summarizes why nothing passed and what would unlock
// options. fallbacks must already be filtered to same-level, local-friendly
// rules sorted by priority; at most three become alternative pathways.
func BuildRecoveryPlan(p *models.StudentProfile, rejectionReasons []string, fallbacks []RuleView) models.RecoveryPlan {
	blocked := dedupSorted(rejectionReasons)
	if len(blocked) > 6 {
		blocked = blocked[:6]
	}

	alternatives := make([]models.AlternativePathway, 0, 3)
	for _, rule := range fallbacks {
		if len(alternatives) == 3 {
			break
		}
		alternatives = append(alternatives, models.AlternativePathway{
			PathwayTitle:     rule.PathwayTitle(),
			Summary:          rule.PathwaySummary(),
			CostEstimateText: rule.CostEstimateText(),
		})
	}

	steps := make([]string, len(unlockSteps))
	copy(steps, unlockSteps)

	return models.RecoveryPlan{
		BlockedInputs:            blocked,
		UnlockSteps:              steps,
		AlternativeLocalPathways: alternatives,
	}
}
