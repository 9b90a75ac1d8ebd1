package engine

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"pathway-workers/internal/models"
)

// NormalizeProfile coerces a raw intake payload into a StudentProfile,
// applying every default the gate and scorers assume. The input map is not
// mutated; nil yields a fully defaulted profile.
//
// When no explicit english_test_score is present a 0-100 proxy is derived
// from a declared IELTS or TOEFL result so the readiness scorer can still
// credit test evidence.
func NormalizeProfile(raw map[string]interface{}) *models.StudentProfile {
	p := &models.StudentProfile{
		StudentLevel: strings.TrimSpace(cast.ToString(raw["student_level"])),

		SPMCredits: cast.ToInt(raw["spm_credits"]),
		Subjects:   asStringMapString(raw["subjects"]),

		CGPA:         cast.ToFloat64(raw["cgpa"]),
		DiplomaField: cast.ToString(raw["diploma_field"]),

		InterestTags:            lowerList(asStringList(raw["interest_tags"])),
		SpecificProgramInterest: cast.ToString(raw["specific_program_interest"]),
		PreferredUniversities:   asStringList(raw["preferred_universities"]),
		TargetRankingTier:       cast.ToString(raw["target_ranking_tier"]),

		BudgetRange:      cast.ToString(raw["budget_range"]),
		BudgetMonthly:    cast.ToInt(raw["budget_monthly"]),
		FinancingMode:    cast.ToString(raw["financing_mode"]),
		NeedWorkPartTime: cast.ToBool(raw["need_work_part_time"]),

		EnglishSelf:     cast.ToString(raw["english_self"]),
		IELTSScore:      cast.ToFloat64(raw["ielts_score"]),
		TOEFLScore:      cast.ToInt(raw["toefl_score"]),
		EnglishTestPlan: cast.ToString(raw["english_test_plan"]),

		DestinationPreference: cast.ToString(raw["destination_preference"]),
		DestinationTags:       lowerList(asStringList(raw["destination_tags"])),

		IntakeWindow:      cast.ToString(raw["intake_window"]),
		TargetIntakeMonth: cast.ToString(raw["target_intake_month"]),
		TargetIntakeYear:  cast.ToInt(raw["target_intake_year"]),

		SupportConstraints:  asStringList(raw["support_constraints"]),
		PriorityFactors:     asStringList(raw["priority_factors"]),
		InstitutionTypePref: cast.ToString(raw["institution_type_pref"]),

		ScholarshipNeeded: cast.ToBool(raw["scholarship_needed"]),
		TimelineUrgency:   cast.ToString(raw["timeline_urgency"]),
		FamilyConstraints: cast.ToString(raw["family_constraints"]),

		PreparednessChecklist: asStringList(raw["preparedness_checklist"]),

		ConsentToSave: cast.ToBool(raw["consent_to_save"]),
		OptionalEmail: cast.ToString(raw["optional_email"]),
	}

	if p.EnglishSelf == "" {
		p.EnglishSelf = "Beginner"
	}
	if p.DestinationPreference == "" {
		p.DestinationPreference = "malaysia_only"
	}
	if len(p.DestinationTags) == 0 {
		p.DestinationTags = []string{"malaysia"}
	}
	if p.TimelineUrgency == "" {
		p.TimelineUrgency = "normal"
	}
	if p.FamilyConstraints == "" {
		p.FamilyConstraints = "none"
	}

	if value, ok := raw["english_test_score"]; ok && value != nil {
		score := cast.ToFloat64(value)
		p.EnglishTestScore = &score
	} else if p.IELTSScore > 0 {
		score := math.Round(p.IELTSScore / 9.0 * 100.0)
		p.EnglishTestScore = &score
	} else if p.TOEFLScore > 0 {
		score := math.Round(float64(p.TOEFLScore) / 120.0 * 100.0)
		p.EnglishTestScore = &score
	}

	// An explicit relocation answer wins; otherwise infer reluctance from a
	// "stay near family/home" support constraint.
	p.WillingRelocate = true
	if value, ok := raw["willing_relocate"]; ok && value != nil {
		p.WillingRelocate = cast.ToBool(value)
	} else {
		for _, constraint := range p.SupportConstraints {
			if strings.Contains(strings.ToLower(constraint), "stay near") {
				p.WillingRelocate = false
				break
			}
		}
	}

	return p
}

// lowerList lowercases and trims a tag list, dropping empties.
func lowerList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
