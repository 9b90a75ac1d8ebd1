// internal/models/evaluation.go
package models

// ScoreDetail is the unit every sub-scorer returns: a bounded numeric score
// plus the explanation fragments it contributes. Ephemeral, never persisted.
type ScoreDetail struct {
	Score      float64  `json:"score"`
	Matched    []string `json:"matched"`
	Borderline []string `json:"borderline"`
	Missing    []string `json:"missing"`
}

// ComponentScores breaks a fit score into its five bounded parts.
type ComponentScores struct {
	Interest    float64 `json:"interest"`
	Academic    float64 `json:"academic"`
	Budget      float64 `json:"budget"`
	English     float64 `json:"english"`
	Constraints float64 `json:"constraints"`
}

// Explanation carries the merged gate + scorer fragments for one
// recommendation. Gate fragments always come first.
type Explanation struct {
	MatchedConditions    []string `json:"matched_conditions"`
	BorderlineConditions []string `json:"borderline_conditions"`
	MissingConditions    []string `json:"missing_conditions"`
	RankingReason        string   `json:"ranking_reason"`
}

// Recommendation is one ranked pathway in an evaluation result.
type Recommendation struct {
	RuleID                string             `json:"rule_id"`
	PathwayTitle          string             `json:"pathway_title"`
	PathwaySummary        string             `json:"pathway_summary"`
	CostEstimateText      string             `json:"cost_estimate_text"`
	VisaNote              string             `json:"visa_note"`
	ScholarshipLikelihood string             `json:"scholarship_likelihood"`
	ReadinessGaps         []string           `json:"readiness_gaps"`
	NextSteps             string             `json:"next_steps"`
	PriorityWeight        int                `json:"priority_weight"`
	FitScore              float64            `json:"fit_score"`
	ComponentScores       ComponentScores    `json:"component_scores"`
	Explanation           Explanation        `json:"explanation"`
	ReadinessScore        int                `json:"readiness_score"`
	UniversityOptions     []UniversityOption `json:"university_options"`

	// InterestTags carries the source rule's tags into university matching
	// as a soft boost; it is not part of the wire contract.
	InterestTags []string `json:"-"`
}

// ReadinessBreakdown splits a readiness score into its four dimensions.
type ReadinessBreakdown struct {
	Academic     float64 `json:"academic"`
	English      float64 `json:"english"`
	Budget       float64 `json:"budget"`
	Preparedness float64 `json:"preparedness"`
}

// Readiness is the rule-independent preparedness block of a result.
type Readiness struct {
	ReadinessScore int                `json:"readiness_score"` // 0..100
	Breakdown      ReadinessBreakdown `json:"breakdown"`
}

// AlternativePathway is a reduced rule offered inside a recovery plan.
type AlternativePathway struct {
	PathwayTitle     string `json:"pathway_title"`
	Summary          string `json:"summary"`
	CostEstimateText string `json:"cost_estimate_text"`
}

// RecoveryPlan is produced when no rule passes the gate.
type RecoveryPlan struct {
	BlockedInputs            []string             `json:"blocked_inputs"`
	UnlockSteps              []string             `json:"unlock_steps"`
	AlternativeLocalPathways []AlternativePathway `json:"alternative_local_pathways"`
}

// ActionPlan holds the short-horizon action lists of a result.
type ActionPlan struct {
	SevenDayActions []string `json:"seven_day_actions"`
	ThirtyDayPlan   []string `json:"thirty_day_plan"`
}

// SourceTrace maps one declared source code to its URL.
type SourceTrace struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// UniversityOption is one matched program, reduced for presentation.
type UniversityOption struct {
	ProgramCode             string        `json:"program_code"`
	UniversityName          string        `json:"university_name"`
	ProgramName             string        `json:"program_name"`
	ProgramLevel            string        `json:"program_level"`
	Country                 string        `json:"country"`
	IntakeTerms             []string      `json:"intake_terms"`
	ApplicationDeadlineText string        `json:"application_deadline_text"`
	ApplicationURL          string        `json:"application_url"`
	ContactEmail            string        `json:"contact_email"`
	PTPTNEligible           bool          `json:"ptptn_eligible"`
	MOHEListed              bool          `json:"mohe_listed"`
	QSOverallRank           *int          `json:"qs_overall_rank"`
	TuitionYearlyText       string        `json:"tuition_yearly_text"`
	MatchScore              float64       `json:"match_score"`
	FitReasons              []string      `json:"fit_reasons"` // top 5
	Cautions                []string      `json:"cautions"`    // top 4
	SourceTrace             []SourceTrace `json:"source_trace"`
}

// EvaluationResult is the single contract handed to callers: either a ranked
// recommendation list or a recovery plan, never both.
type EvaluationResult struct {
	NoMatch              bool               `json:"no_match"`
	Readiness            Readiness          `json:"readiness"`
	Recommendations      []Recommendation   `json:"recommendations"`
	TopUniversityOptions []UniversityOption `json:"top_university_options"`
	RecoveryPlan         *RecoveryPlan      `json:"recovery_plan"`
	SevenDayActions      []string           `json:"seven_day_actions"`
	ThirtyDayPlan        []string           `json:"thirty_day_plan"`
}
