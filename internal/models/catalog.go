// internal/models/catalog.go
package models

// Rule is one admissible-pathway rule from the catalog. Rules are reference
// data: created and edited by an administrative surface, read-only here.
//
// MinSPMCredits and MinCGPA are pointers because an explicit zero threshold
// is a valid (if unusual) gate, while nil means the rule does not constrain
// that dimension at all.
type Rule struct {
	RuleID                string                 `json:"rule_id"`
	Active                bool                   `json:"active"`
	StudentLevel          string                 `json:"student_level"` // "SPM" or "Diploma"
	InterestTags          []string               `json:"interest_tags"`
	DestinationTags       []string               `json:"destination_tags"`
	MinSPMCredits         *int                   `json:"min_spm_credits,omitempty"`
	RequiredSubjects      map[string]string      `json:"required_subjects,omitempty"`
	MinCGPA               *float64               `json:"min_cgpa,omitempty"`
	BudgetMin             int                    `json:"budget_min,omitempty"`
	BudgetMax             int                    `json:"budget_max,omitempty"`
	EnglishMin            string                 `json:"english_min,omitempty"` // Beginner | Intermediate | Advanced
	Constraints           map[string]interface{} `json:"constraints,omitempty"` // work_part_time_ok, timeline_fast_track
	PathwayTitle          string                 `json:"pathway_title"`
	PathwaySummary        string                 `json:"pathway_summary"`
	CostEstimateText      string                 `json:"cost_estimate_text"`
	VisaNote              string                 `json:"visa_note"`
	ScholarshipLikelihood string                 `json:"scholarship_likelihood"` // High | Medium | Low
	ReadinessGaps         []string               `json:"readiness_gaps"`
	NextSteps             string                 `json:"next_steps"`
	PriorityWeight        int                    `json:"priority_weight"`
}

// UniversityProgram is one program row from the university catalog.
type UniversityProgram struct {
	ProgramCode             string                 `json:"program_code"`
	Active                  bool                   `json:"active"`
	UniversityName          string                 `json:"university_name"`
	Country                 string                 `json:"country"`
	ProgramName             string                 `json:"program_name"`
	ProgramLevel            string                 `json:"program_level"` // Foundation | Diploma | Bachelor | Top-up
	FieldTags               []string               `json:"field_tags"`
	IntakeTerms             []string               `json:"intake_terms"` // month names
	ApplicationDeadlineText string                 `json:"application_deadline_text,omitempty"`
	AdmissionRequirements   map[string]interface{} `json:"admission_requirements,omitempty"`
	TuitionYearlyMinMYR     int                    `json:"tuition_yearly_min_myr,omitempty"`
	TuitionYearlyMaxMYR     int                    `json:"tuition_yearly_max_myr,omitempty"`
	IELTSMin                float64                `json:"ielts_min,omitempty"`
	TOEFLMin                int                    `json:"toefl_min,omitempty"`
	QSOverallRank           *int                   `json:"qs_overall_rank,omitempty"`
	QSSubjectRank           *int                   `json:"qs_subject_rank,omitempty"`
	MOHEListed              bool                   `json:"mohe_listed"`
	PTPTNEligible           bool                   `json:"ptptn_eligible"`
	SourceCodes             []string               `json:"source_codes"`
	SourceURLs              map[string]string      `json:"source_urls,omitempty"`
	ApplicationURL          string                 `json:"application_url,omitempty"`
	ContactEmail            string                 `json:"contact_email,omitempty"`
}

// ExternalDataSource tracks where catalog rows were sourced from and when
// each source was last reachable.
type ExternalDataSource struct {
	SourceCode      string `json:"source_code"`
	Name            string `json:"name"`
	BaseURL         string `json:"base_url"`
	UpdateFrequency string `json:"update_frequency"`
	LastSyncedAt    string `json:"last_synced_at,omitempty"`
	LastCheckedAt   string `json:"last_checked_at,omitempty"`
	LastStatus      string `json:"last_status,omitempty"`
	Active          bool   `json:"active"`
}
