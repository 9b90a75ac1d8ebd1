package engine

import (
	"fmt"
	"math"
	"strings"

	"pathway-workers/internal/models"
)

// EvaluateGate runs the sequential hard checks for one rule against one
// profile, short-circuiting on the first failure. The returned fragment
// lists feed the recommendation explanation; on failure the missing list
// ends with the reason that blocked the rule.
func EvaluateGate(rule RuleView, p *models.StudentProfile) (bool, []string, []string, []string) {
	var matched, borderline, missing []string

	if !rule.Active() {
		missing = append(missing, "Rule inactive")
		return false, matched, borderline, missing
	}

	if rule.StudentLevel() != p.StudentLevel {
		missing = append(missing, "Student level mismatch")
		return false, matched, borderline, missing
	}
	matched = append(matched, "Student level")

	if p.StudentLevel == "SPM" {
		if minCredits, ok := rule.MinSPMCredits(); ok {
			credits := p.SPMCredits
			if credits < minCredits {
				missing = append(missing, fmt.Sprintf("SPM credits %d < %d", credits, minCredits))
				return false, matched, borderline, missing
			}
			if credits == minCredits {
				borderline = append(borderline, "SPM credits at threshold")
			} else {
				matched = append(matched, "SPM credits")
			}
		}

		if required := rule.RequiredSubjects(); len(required) > 0 {
			studentGrades := lowerKeyed(p.Subjects)
			for _, subject := range sortedKeys(required) {
				neededGrade := required[subject]
				studentGrade := studentGrades[strings.ToLower(subject)]
				if studentGrade == "" {
					missing = append(missing, fmt.Sprintf("Missing subject grade for %s", subject))
					return false, matched, borderline, missing
				}
				if !gradeMeets(studentGrade, neededGrade) {
					missing = append(missing, fmt.Sprintf("%s below %s", subject, neededGrade))
					return false, matched, borderline, missing
				}
				if strings.EqualFold(studentGrade, neededGrade) {
					borderline = append(borderline, fmt.Sprintf("%s at threshold %s", subject, neededGrade))
				} else {
					matched = append(matched, fmt.Sprintf("%s requirement", subject))
				}
			}
		}
	}

	if p.StudentLevel == "Diploma" {
		if minCGPA, ok := rule.MinCGPA(); ok {
			cgpa := p.CGPA
			if cgpa < minCGPA {
				missing = append(missing, fmt.Sprintf("CGPA %.2f < %.2f", cgpa, minCGPA))
				return false, matched, borderline, missing
			}
			if math.Abs(cgpa-minCGPA) < 0.05 {
				borderline = append(borderline, "CGPA at threshold")
			} else {
				matched = append(matched, "CGPA requirement")
			}
		}
	}

	if budgetMin := rule.BudgetMin(); budgetMin > 0 {
		if p.BudgetMonthly < budgetMin {
			if float64(p.BudgetMonthly) >= float64(budgetMin)*0.8 {
				borderline = append(borderline, "Budget slightly below pathway minimum")
			} else {
				missing = append(missing, "Budget below pathway minimum")
				return false, matched, borderline, missing
			}
		} else {
			matched = append(matched, "Budget minimum")
		}
	}

	if requiredEnglish := rule.EnglishMin(); requiredEnglish != "" {
		got := englishLevels[p.EnglishSelf]
		need, ok := englishLevels[requiredEnglish]
		if !ok {
			need = 2
		}
		switch {
		case got < need-1:
			missing = append(missing, "English level significantly below requirement")
			return false, matched, borderline, missing
		case got < need:
			borderline = append(borderline, "English one level below requirement")
		case got == need:
			borderline = append(borderline, "English at threshold")
		default:
			matched = append(matched, "English readiness")
		}
	}

	destinations := ruleDestinations(rule)
	selected := normSet(p.DestinationTags)

	if p.DestinationPreference == "malaysia_only" && !setHas(destinations, "malaysia") {
		missing = append(missing, "Overseas-only pathway while student chose Malaysia only")
		return false, matched, borderline, missing
	}
	if p.DestinationPreference == "open_overseas" && len(selected) > 0 {
		if len(destinations) > 0 && !setsIntersect(destinations, selected) && !setHas(destinations, "malaysia") {
			borderline = append(borderline, "Destination preference not directly matched")
		} else {
			matched = append(matched, "Destination preference")
		}
	}

	if !p.WillingRelocate && !setHas(destinations, "malaysia") {
		missing = append(missing, "Relocation not preferred")
		return false, matched, borderline, missing
	}

	return true, matched, borderline, missing
}

// ruleDestinations returns the rule's normalized destination tags, treating
// an undeclared list as Malaysia-only.
func ruleDestinations(rule RuleView) map[string]struct{} {
	tags := rule.DestinationTags()
	if len(tags) == 0 {
		tags = []string{"malaysia"}
	}
	return normSet(tags)
}
