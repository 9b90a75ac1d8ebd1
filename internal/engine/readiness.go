package engine

import (
	"math"

	"pathway-workers/internal/models"
)

// englishBase maps English level rank to the readiness baseline.
var englishBase = [3]float64{10.0, 18.0, 25.0}

// ScoreReadiness measures overall preparedness on a 0-100 scale,
// independent of any rule. Components: academic 40, english 25, budget 20,
// preparedness 15.
func ScoreReadiness(p *models.StudentProfile) models.Readiness {
	academic := 0.0
	switch p.StudentLevel {
	case "SPM":
		academic = math.Min(40.0, float64(p.SPMCredits)/8.0*40.0)
	case "Diploma":
		academic = math.Min(40.0, p.CGPA/4.0*40.0)
	}

	english := englishBase[englishLevels[p.EnglishSelf]]
	if p.EnglishTestScore != nil {
		if *p.EnglishTestScore >= 75 {
			english = math.Min(25.0, english+3.0)
		} else if *p.EnglishTestScore < 50 {
			english -= 2.0
		}
	}

	budget := 6.0
	if p.BudgetMonthly >= 1500 {
		budget = 20.0
	} else if p.BudgetMonthly >= 800 {
		budget = 12.0
	}

	preparedness := math.Min(15.0, float64(len(p.PreparednessChecklist))/5.0*15.0)

	total := int(math.Round(math.Min(100.0, academic+english+budget+preparedness)))

	return models.Readiness{
		ReadinessScore: total,
		Breakdown: models.ReadinessBreakdown{
			Academic:     round2(academic),
			English:      round2(english),
			Budget:       round2(budget),
			Preparedness: round2(preparedness),
		},
	}
}
