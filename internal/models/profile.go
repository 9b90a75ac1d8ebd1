// internal/models/profile.go
package models

// StudentProfile is the flat profile collected by the intake wizard. The
// engine consumes it read-only; engine.NormalizeProfile is the single place
// where raw payload maps are coerced and defaulted into this shape.
//
// EnglishTestScore is a pointer because "never took a test" and "scored
// zero" adjust the readiness score differently.
type StudentProfile struct {
	StudentLevel string `json:"student_level"` // "SPM" or "Diploma"

	// SPM academics
	SPMCredits int               `json:"spm_credits,omitempty"`
	Subjects   map[string]string `json:"subjects,omitempty"` // subject -> grade

	// Diploma academics
	CGPA         float64 `json:"cgpa,omitempty"`
	DiplomaField string  `json:"diploma_field,omitempty"`

	InterestTags            []string `json:"interest_tags"`
	SpecificProgramInterest string   `json:"specific_program_interest,omitempty"`
	PreferredUniversities   []string `json:"preferred_universities,omitempty"`
	TargetRankingTier       string   `json:"target_ranking_tier,omitempty"`

	BudgetRange      string `json:"budget_range,omitempty"`
	BudgetMonthly    int    `json:"budget_monthly"`
	FinancingMode    string `json:"financing_mode,omitempty"`
	NeedWorkPartTime bool   `json:"need_work_part_time"`

	EnglishSelf      string   `json:"english_self"` // Beginner | Intermediate | Advanced
	EnglishTestScore *float64 `json:"english_test_score,omitempty"`
	IELTSScore       float64  `json:"ielts_score,omitempty"`
	TOEFLScore       int      `json:"toefl_score,omitempty"`
	EnglishTestPlan  string   `json:"english_test_plan,omitempty"`

	DestinationPreference string   `json:"destination_preference"` // malaysia_only | open_overseas
	DestinationTags       []string `json:"destination_tags"`

	IntakeWindow      string `json:"intake_window,omitempty"` // next_3_months | next_6_12_months | flexible_local
	TargetIntakeMonth string `json:"target_intake_month,omitempty"`
	TargetIntakeYear  int    `json:"target_intake_year,omitempty"`

	SupportConstraints  []string `json:"support_constraints,omitempty"`
	PriorityFactors     []string `json:"priority_factors,omitempty"`
	InstitutionTypePref string   `json:"institution_type_pref,omitempty"`

	ScholarshipNeeded bool   `json:"scholarship_needed"`
	TimelineUrgency   string `json:"timeline_urgency"`   // normal | urgent
	FamilyConstraints string `json:"family_constraints"` // "none" or a description
	WillingRelocate   bool   `json:"willing_relocate"`

	PreparednessChecklist []string `json:"preparedness_checklist,omitempty"`

	ConsentToSave bool   `json:"consent_to_save,omitempty"`
	OptionalEmail string `json:"optional_email,omitempty"`
}
