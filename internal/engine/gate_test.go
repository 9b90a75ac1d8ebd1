package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pathway-workers/internal/models"
)

func diplomaInput() map[string]interface{} {
	return map[string]interface{}{
		"student_level":          "Diploma",
		"cgpa":                   3.2,
		"diploma_field":          "it",
		"interest_tags":          []interface{}{"it"},
		"budget_monthly":         1800,
		"english_self":           "Intermediate",
		"destination_preference": "malaysia_only",
		"destination_tags":       []interface{}{"malaysia"},
	}
}

func diplomaRule() models.Rule {
	return models.Rule{
		RuleID:          "D1",
		Active:          true,
		StudentLevel:    "Diploma",
		InterestTags:    []string{"it"},
		DestinationTags: []string{"malaysia"},
		MinCGPA:         float64Ptr(3.0),
		PathwayTitle:    "Bachelor Top-up (Local)",
		PriorityWeight:  7,
	}
}

// ==========================
// Tests: EvaluateGate
// ==========================

func TestEvaluateGatePassesBaseCase(t *testing.T) {
	rule := ruleR1()

	passed, matched, borderline, missing := EvaluateGate(RuleOf(&rule), baseSPMProfile())

	assert.True(t, passed)
	assert.Empty(t, missing)
	assert.Equal(t, []string{"Student level", "SPM credits", "math requirement", "Budget minimum"}, matched)
	assert.Equal(t, []string{"English at threshold"}, borderline)
}

func TestEvaluateGateShortCircuits(t *testing.T) {
	tests := []struct {
		name        string
		mutateRule  func(r *models.Rule)
		mutateInput func(raw map[string]interface{})
		wantMissing string
	}{
		{
			name:        "inactive rule",
			mutateRule:  func(r *models.Rule) { r.Active = false },
			wantMissing: "Rule inactive",
		},
		{
			name:        "student level mismatch",
			mutateRule:  func(r *models.Rule) { r.StudentLevel = "Diploma" },
			wantMissing: "Student level mismatch",
		},
		{
			name:        "credits below minimum",
			mutateRule:  func(r *models.Rule) { r.MinSPMCredits = intPtr(8) },
			wantMissing: "SPM credits 6 < 8",
		},
		{
			name:        "missing subject grade",
			mutateRule:  func(r *models.Rule) { r.RequiredSubjects = map[string]string{"physics": "C"} },
			wantMissing: "Missing subject grade for physics",
		},
		{
			name:        "subject below required grade",
			mutateRule:  func(r *models.Rule) { r.RequiredSubjects = map[string]string{"math": "A"} },
			wantMissing: "math below A",
		},
		{
			name:        "budget far below minimum",
			mutateRule:  func(r *models.Rule) { r.BudgetMin = 2000 },
			wantMissing: "Budget below pathway minimum",
		},
		{
			name:        "english significantly below",
			mutateRule:  func(r *models.Rule) { r.EnglishMin = "Advanced" },
			mutateInput: func(raw map[string]interface{}) { raw["english_self"] = "Beginner" },
			wantMissing: "English level significantly below requirement",
		},
		{
			name:        "overseas pathway for malaysia-only student",
			mutateRule:  func(r *models.Rule) { r.DestinationTags = []string{"uk"} },
			wantMissing: "Overseas-only pathway while student chose Malaysia only",
		},
		{
			name:       "relocation not preferred",
			mutateRule: func(r *models.Rule) { r.DestinationTags = []string{"uk"} },
			mutateInput: func(raw map[string]interface{}) {
				raw["destination_preference"] = "open_overseas"
				raw["destination_tags"] = []interface{}{"uk"}
				raw["willing_relocate"] = false
			},
			wantMissing: "Relocation not preferred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := ruleR1()
			if tt.mutateRule != nil {
				tt.mutateRule(&rule)
			}
			raw := baseSPMInput()
			if tt.mutateInput != nil {
				tt.mutateInput(raw)
			}

			passed, _, _, missing := EvaluateGate(RuleOf(&rule), NormalizeProfile(raw))

			assert.False(t, passed)
			assert.NotEmpty(t, missing)
			assert.Equal(t, tt.wantMissing, missing[len(missing)-1])
		})
	}
}

func TestEvaluateGateLevelMismatchReportsNothingElse(t *testing.T) {
	rule := ruleR1()
	rule.StudentLevel = "Diploma"

	passed, matched, borderline, missing := EvaluateGate(RuleOf(&rule), baseSPMProfile())

	assert.False(t, passed)
	assert.Empty(t, matched)
	assert.Empty(t, borderline)
	assert.Equal(t, []string{"Student level mismatch"}, missing)
}

func TestEvaluateGateBorderlines(t *testing.T) {
	tests := []struct {
		name           string
		mutateRule     func(r *models.Rule)
		mutateInput    func(raw map[string]interface{})
		wantBorderline string
	}{
		{
			name:           "credits at threshold",
			mutateRule:     func(r *models.Rule) { r.MinSPMCredits = intPtr(6) },
			wantBorderline: "SPM credits at threshold",
		},
		{
			name:           "subject at threshold",
			mutateRule:     func(r *models.Rule) { r.RequiredSubjects = map[string]string{"math": "B"} },
			wantBorderline: "math at threshold B",
		},
		{
			name:           "budget slightly below minimum",
			mutateRule:     func(r *models.Rule) { r.BudgetMin = 1700 },
			wantBorderline: "Budget slightly below pathway minimum",
		},
		{
			name:           "english one level below",
			mutateRule:     func(r *models.Rule) { r.EnglishMin = "Advanced" },
			wantBorderline: "English one level below requirement",
		},
		{
			name:       "destination preference not directly matched",
			mutateRule: func(r *models.Rule) { r.DestinationTags = []string{"uk"} },
			mutateInput: func(raw map[string]interface{}) {
				raw["destination_preference"] = "open_overseas"
				raw["destination_tags"] = []interface{}{"australia"}
			},
			wantBorderline: "Destination preference not directly matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := ruleR1()
			if tt.mutateRule != nil {
				tt.mutateRule(&rule)
			}
			raw := baseSPMInput()
			if tt.mutateInput != nil {
				tt.mutateInput(raw)
			}

			passed, _, borderline, missing := EvaluateGate(RuleOf(&rule), NormalizeProfile(raw))

			assert.True(t, passed)
			assert.Empty(t, missing)
			assert.Contains(t, borderline, tt.wantBorderline)
		})
	}
}

func TestEvaluateGateDiplomaCGPA(t *testing.T) {
	tests := []struct {
		name     string
		cgpa     float64
		minCGPA  float64
		wantPass bool
		want     string
		wantList string
	}{
		{name: "cgpa below minimum", cgpa: 2.8, minCGPA: 3.0, wantPass: false, want: "CGPA 2.80 < 3.00", wantList: "missing"},
		{name: "cgpa at threshold", cgpa: 3.02, minCGPA: 3.0, wantPass: true, want: "CGPA at threshold", wantList: "borderline"},
		{name: "cgpa clears minimum", cgpa: 3.4, minCGPA: 3.0, wantPass: true, want: "CGPA requirement", wantList: "matched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := diplomaRule()
			rule.MinCGPA = float64Ptr(tt.minCGPA)
			raw := diplomaInput()
			raw["cgpa"] = tt.cgpa

			passed, matched, borderline, missing := EvaluateGate(RuleOf(&rule), NormalizeProfile(raw))

			assert.Equal(t, tt.wantPass, passed)
			switch tt.wantList {
			case "missing":
				assert.Contains(t, missing, tt.want)
			case "borderline":
				assert.Contains(t, borderline, tt.want)
			case "matched":
				assert.Contains(t, matched, tt.want)
			}
		})
	}
}

func TestEvaluateGateIgnoresAcademicChecksForOtherLevel(t *testing.T) {
	// A Diploma rule with SPM-only fields set must not apply them.
	rule := diplomaRule()
	rule.MinSPMCredits = intPtr(9)
	rule.RequiredSubjects = map[string]string{"math": "A+"}

	passed, _, _, missing := EvaluateGate(RuleOf(&rule), NormalizeProfile(diplomaInput()))

	assert.True(t, passed)
	assert.Empty(t, missing)
}
