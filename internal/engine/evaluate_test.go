package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathway-workers/internal/models"
)

// ==========================
// Shared Test Fixtures
// ==========================

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

// fixedNow anchors intake arithmetic: March is 0 months away, September 6.
var fixedNow = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func baseSPMInput() map[string]interface{} {
	return map[string]interface{}{
		"student_level": "SPM",
		"spm_credits":   6,
		"subjects": map[string]interface{}{
			"math":    "B",
			"english": "B",
			"bm":      "C",
			"science": "B",
		},
		"interest_tags":          []interface{}{"IT", "Engineering"},
		"budget_monthly":         1500,
		"english_self":           "Intermediate",
		"english_test_score":     70,
		"destination_preference": "malaysia_only",
		"destination_tags":       []interface{}{"malaysia"},
		"need_work_part_time":    true,
		"preparedness_checklist": []interface{}{"CV drafted"},
	}
}

func baseSPMProfile() *models.StudentProfile {
	return NormalizeProfile(baseSPMInput())
}

func ruleR1() models.Rule {
	return models.Rule{
		RuleID:                "R1",
		Active:                true,
		StudentLevel:          "SPM",
		InterestTags:          []string{"it", "engineering"},
		DestinationTags:       []string{"malaysia"},
		MinSPMCredits:         intPtr(5),
		RequiredSubjects:      map[string]string{"math": "C"},
		BudgetMin:             900,
		EnglishMin:            "Intermediate",
		PathwayTitle:          "Foundation in Computing (Local)",
		PathwaySummary:        "One-year foundation leading into IT and engineering degrees.",
		CostEstimateText:      "RM 900 - RM 1,400 monthly",
		ScholarshipLikelihood: "High",
		NextSteps:             "Request the foundation syllabus and compare intakes.",
		PriorityWeight:        10,
	}
}

func ruleR2() models.Rule {
	return models.Rule{
		RuleID:                "R2",
		Active:                true,
		StudentLevel:          "SPM",
		InterestTags:          []string{"business"},
		DestinationTags:       []string{"malaysia"},
		MinSPMCredits:         intPtr(4),
		BudgetMin:             600,
		EnglishMin:            "Beginner",
		PathwayTitle:          "Diploma in Business (Local)",
		PathwaySummary:        "Two-year diploma with part-time friendly schedules.",
		CostEstimateText:      "RM 600 - RM 1,000 monthly",
		ScholarshipLikelihood: "Medium",
		PriorityWeight:        5,
	}
}

func overseasRule() models.Rule {
	return models.Rule{
		RuleID:          "OVERSEAS_ONLY",
		Active:          true,
		StudentLevel:    "SPM",
		InterestTags:    []string{"it"},
		DestinationTags: []string{"uk"},
		PathwayTitle:    "UK Foundation Year",
		PathwaySummary:  "Direct foundation placement with UK partners.",
		PriorityWeight:  8,
	}
}

func simpleRule(id string, priority int) models.Rule {
	return models.Rule{
		RuleID:          id,
		Active:          true,
		StudentLevel:    "SPM",
		DestinationTags: []string{"malaysia"},
		PathwayTitle:    fmt.Sprintf("Pathway %s", id),
		PriorityWeight:  priority,
	}
}

func testProgram() models.UniversityProgram {
	return models.UniversityProgram{
		ProgramCode:    "MY_TEST_IT_01",
		Active:         true,
		UniversityName: "Test University",
		Country:        "Malaysia",
		ProgramName:    "Diploma in IT",
		ProgramLevel:   "Diploma",
		FieldTags:      []string{"it", "software"},
		IntakeTerms:    []string{"March", "September"},
		AdmissionRequirements: map[string]interface{}{
			"min_spm_credits":   5,
			"english_min_level": "Intermediate",
		},
		TuitionYearlyMinMYR: 18000,
		TuitionYearlyMaxMYR: 24000,
		PTPTNEligible:       true,
		MOHEListed:          true,
		SourceCodes:         []string{"MOHE"},
		SourceURLs:          map[string]string{"MOHE": "https://example.edu/apply"},
	}
}

// ==========================
// Tests: Evaluate (matched path)
// ==========================

func TestEvaluateRanksEligibleRules(t *testing.T) {
	result := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{ruleR2(), ruleR1()}),
		Profile: baseSPMProfile(),
		Now:     fixedNow,
	})

	require.NotNil(t, result)
	assert.False(t, result.NoMatch)
	assert.Nil(t, result.RecoveryPlan)
	require.Len(t, result.Recommendations, 2)

	first := result.Recommendations[0]
	second := result.Recommendations[1]
	assert.Equal(t, "R1", first.RuleID)
	assert.Equal(t, "R2", second.RuleID)
	assert.Equal(t, 97.0, first.FitScore)
	assert.Equal(t, 57.0, second.FitScore)
	assert.Greater(t, first.FitScore, second.FitScore)

	assert.Equal(t, 71, result.Readiness.ReadinessScore)
	assert.Equal(t, 71, first.ReadinessScore)
	assert.Equal(t, 71, second.ReadinessScore)
}

func TestEvaluateExplanationLeadsWithGateFragments(t *testing.T) {
	result := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{ruleR1()}),
		Profile: baseSPMProfile(),
		Now:     fixedNow,
	})

	require.Len(t, result.Recommendations, 1)
	explanation := result.Recommendations[0].Explanation

	require.NotEmpty(t, explanation.MatchedConditions)
	assert.Equal(t, "Student level", explanation.MatchedConditions[0])
	assert.Contains(t, explanation.MatchedConditions, "Interest match: engineering, it")
	assert.Contains(t, explanation.BorderlineConditions, "English at threshold")
	assert.Empty(t, explanation.MissingConditions)
	assert.Equal(t,
		"Priority 10; interest 30.0, academic 25.0, budget 20.0, english 12.0, constraints 10.0.",
		explanation.RankingReason)
}

func TestEvaluateShortlistFloor(t *testing.T) {
	tests := []struct {
		name      string
		ruleCount int
		topN      int
		wantCount int
	}{
		{name: "floor of three with four eligible", ruleCount: 4, topN: 1, wantCount: 3},
		{name: "fewer eligible than floor", ruleCount: 2, topN: 1, wantCount: 2},
		{name: "default top n caps at five", ruleCount: 7, topN: 0, wantCount: 5},
		{name: "explicit top n", ruleCount: 7, topN: 6, wantCount: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := make([]models.Rule, 0, tt.ruleCount)
			for i := 0; i < tt.ruleCount; i++ {
				rules = append(rules, simpleRule(fmt.Sprintf("R%d", i+1), 10-i))
			}

			result := Evaluate(Request{
				Rules:   RulesOf(rules),
				Profile: baseSPMProfile(),
				TopN:    tt.topN,
				Now:     fixedNow,
			})

			assert.False(t, result.NoMatch)
			assert.Len(t, result.Recommendations, tt.wantCount)
		})
	}
}

func TestEvaluateCreditsImproveFit(t *testing.T) {
	lower := baseSPMInput()
	lower["spm_credits"] = 5
	higher := baseSPMInput()
	higher["spm_credits"] = 8

	lowResult := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{ruleR1()}),
		Profile: NormalizeProfile(lower),
		Now:     fixedNow,
	})
	highResult := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{ruleR1()}),
		Profile: NormalizeProfile(higher),
		Now:     fixedNow,
	})

	require.Len(t, lowResult.Recommendations, 1)
	require.Len(t, highResult.Recommendations, 1)
	assert.Greater(t, highResult.Recommendations[0].FitScore, lowResult.Recommendations[0].FitScore)
	assert.Greater(t, highResult.Readiness.ReadinessScore, lowResult.Readiness.ReadinessScore)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	request := Request{
		Rules:    RulesOf([]models.Rule{ruleR1(), ruleR2(), overseasRule()}),
		Programs: ProgramsOf([]models.UniversityProgram{testProgram()}),
		Profile:  baseSPMProfile(),
		Now:      fixedNow,
	}

	first := Evaluate(request)
	second := Evaluate(request)

	assert.Equal(t, first, second)
}

// ==========================
// Tests: Evaluate (university shortlist)
// ==========================

func TestEvaluateAttachesUniversityOptions(t *testing.T) {
	result := Evaluate(Request{
		Rules:    RulesOf([]models.Rule{ruleR1()}),
		Programs: ProgramsOf([]models.UniversityProgram{testProgram()}),
		Profile:  baseSPMProfile(),
		Now:      fixedNow,
	})

	require.Len(t, result.Recommendations, 1)
	require.NotEmpty(t, result.Recommendations[0].UniversityOptions)
	require.NotEmpty(t, result.TopUniversityOptions)

	top := result.TopUniversityOptions[0]
	assert.Equal(t, "Test University", top.UniversityName)
	assert.Equal(t, "Diploma in IT", top.ProgramName)
	assert.Equal(t, "RM 18,000 - RM 24,000 per year", top.TuitionYearlyText)

	require.NotEmpty(t, result.SevenDayActions)
	assert.Equal(t,
		"Shortlist these universities for action: Test University.",
		result.SevenDayActions[0])
	assert.Contains(t, result.ThirtyDayPlan,
		"Complete a personal statement draft tailored to your top 3 programs.")
	assert.LessOrEqual(t, len(result.TopUniversityOptions), 8)
}

func TestEvaluateWithoutProgramsKeepsGenericPlan(t *testing.T) {
	result := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{ruleR1()}),
		Profile: baseSPMProfile(),
		Now:     fixedNow,
	})

	assert.Empty(t, result.TopUniversityOptions)
	require.NotEmpty(t, result.SevenDayActions)
	assert.Equal(t,
		"Shortlist two realistic pathways and discuss with a counselor/mentor.",
		result.SevenDayActions[0])
}

// ==========================
// Tests: Evaluate (no-match path)
// ==========================

func TestEvaluateNoMatchBuildsRecovery(t *testing.T) {
	result := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{overseasRule()}),
		Profile: baseSPMProfile(),
		Now:     fixedNow,
	})

	assert.True(t, result.NoMatch)
	assert.Empty(t, result.Recommendations)
	require.NotNil(t, result.RecoveryPlan)

	assert.GreaterOrEqual(t, len(result.RecoveryPlan.UnlockSteps), 3)
	assert.Contains(t, result.RecoveryPlan.BlockedInputs,
		"Overseas-only pathway while student chose Malaysia only")
	assert.Empty(t, result.RecoveryPlan.AlternativeLocalPathways)
	assert.NotEmpty(t, result.SevenDayActions)
	assert.NotEmpty(t, result.ThirtyDayPlan)
}

func TestEvaluateNoMatchOffersLocalAlternatives(t *testing.T) {
	blocked := ruleR1()
	blocked.MinSPMCredits = intPtr(9)

	result := Evaluate(Request{
		Rules:   RulesOf([]models.Rule{blocked, overseasRule()}),
		Profile: baseSPMProfile(),
		Now:     fixedNow,
	})

	assert.True(t, result.NoMatch)
	require.NotNil(t, result.RecoveryPlan)
	require.Len(t, result.RecoveryPlan.AlternativeLocalPathways, 1)
	assert.Equal(t, "Foundation in Computing (Local)",
		result.RecoveryPlan.AlternativeLocalPathways[0].PathwayTitle)
	assert.Contains(t, result.RecoveryPlan.BlockedInputs, "SPM credits 6 < 9")
}

func TestEvaluateNoMatchStillSuggestsUniversities(t *testing.T) {
	result := Evaluate(Request{
		Rules:    RulesOf([]models.Rule{overseasRule()}),
		Programs: ProgramsOf([]models.UniversityProgram{testProgram()}),
		Profile:  baseSPMProfile(),
		Now:      fixedNow,
	})

	assert.True(t, result.NoMatch)
	require.NotEmpty(t, result.TopUniversityOptions)
	assert.LessOrEqual(t, len(result.TopUniversityOptions), 5)
	assert.Equal(t, "Test University", result.TopUniversityOptions[0].UniversityName)
}

func TestEvaluateDefaults(t *testing.T) {
	result := Evaluate(Request{Rules: RulesOf([]models.Rule{ruleR1()})})

	require.NotNil(t, result)
	assert.True(t, result.NoMatch)
	require.NotNil(t, result.RecoveryPlan)
	assert.Contains(t, result.RecoveryPlan.BlockedInputs, "Student level mismatch")
}
