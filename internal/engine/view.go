package engine

import (
	"github.com/spf13/cast"

	"pathway-workers/internal/models"
)

// RuleView reads one pathway rule. Two implementations exist: a struct view
// over models.Rule for catalog rows, and a map view over raw payloads so
// rules carried in process variables can be scored without re-marshaling.
type RuleView interface {
	RuleID() string
	Active() bool
	StudentLevel() string
	InterestTags() []string
	DestinationTags() []string
	MinSPMCredits() (int, bool)
	RequiredSubjects() map[string]string
	MinCGPA() (float64, bool)
	BudgetMin() int
	BudgetMax() int
	EnglishMin() string
	Constraints() map[string]interface{}
	PathwayTitle() string
	PathwaySummary() string
	CostEstimateText() string
	VisaNote() string
	ScholarshipLikelihood() string
	ReadinessGaps() []string
	NextSteps() string
	PriorityWeight() int
}

// ProgramView reads one university program, with the same struct/map split
// as RuleView.
type ProgramView interface {
	ProgramCode() string
	Active() bool
	UniversityName() string
	Country() string
	ProgramName() string
	ProgramLevel() string
	FieldTags() []string
	IntakeTerms() []string
	ApplicationDeadlineText() string
	AdmissionRequirements() map[string]interface{}
	TuitionYearlyMin() int
	TuitionYearlyMax() int
	IELTSMin() float64
	TOEFLMin() int
	QSOverallRank() (int, bool)
	MOHEListed() bool
	PTPTNEligible() bool
	SourceCodes() []string
	SourceURLs() map[string]string
	ApplicationURL() string
	ContactEmail() string
}

// RuleOf wraps a catalog rule record.
func RuleOf(r *models.Rule) RuleView { return ruleStructView{r} }

// RulesOf wraps a slice of catalog rule records.
func RulesOf(rules []models.Rule) []RuleView {
	views := make([]RuleView, len(rules))
	for i := range rules {
		views[i] = ruleStructView{&rules[i]}
	}
	return views
}

type ruleStructView struct{ r *models.Rule }

func (v ruleStructView) RuleID() string          { return v.r.RuleID }
func (v ruleStructView) Active() bool            { return v.r.Active }
func (v ruleStructView) StudentLevel() string    { return v.r.StudentLevel }
func (v ruleStructView) InterestTags() []string  { return v.r.InterestTags }
func (v ruleStructView) DestinationTags() []string { return v.r.DestinationTags }

func (v ruleStructView) MinSPMCredits() (int, bool) {
	if v.r.MinSPMCredits == nil {
		return 0, false
	}
	return *v.r.MinSPMCredits, true
}

func (v ruleStructView) RequiredSubjects() map[string]string { return v.r.RequiredSubjects }

func (v ruleStructView) MinCGPA() (float64, bool) {
	if v.r.MinCGPA == nil {
		return 0, false
	}
	return *v.r.MinCGPA, true
}

func (v ruleStructView) BudgetMin() int                      { return v.r.BudgetMin }
func (v ruleStructView) BudgetMax() int                      { return v.r.BudgetMax }
func (v ruleStructView) EnglishMin() string                  { return v.r.EnglishMin }
func (v ruleStructView) Constraints() map[string]interface{} { return v.r.Constraints }
func (v ruleStructView) PathwayTitle() string                { return v.r.PathwayTitle }
func (v ruleStructView) PathwaySummary() string              { return v.r.PathwaySummary }
func (v ruleStructView) CostEstimateText() string            { return v.r.CostEstimateText }
func (v ruleStructView) VisaNote() string                    { return v.r.VisaNote }
func (v ruleStructView) ScholarshipLikelihood() string       { return v.r.ScholarshipLikelihood }
func (v ruleStructView) ReadinessGaps() []string             { return v.r.ReadinessGaps }
func (v ruleStructView) NextSteps() string                   { return v.r.NextSteps }
func (v ruleStructView) PriorityWeight() int                 { return v.r.PriorityWeight }

// RuleFromMap wraps a raw rule payload. Keys are snake_case; values are
// coerced loosely because process variables arrive as generic JSON.
func RuleFromMap(m map[string]interface{}) RuleView { return ruleMapView{m} }

// RulesFromMaps wraps a slice of raw rule payloads.
func RulesFromMaps(maps []map[string]interface{}) []RuleView {
	views := make([]RuleView, len(maps))
	for i := range maps {
		views[i] = ruleMapView{maps[i]}
	}
	return views
}

type ruleMapView struct{ m map[string]interface{} }

func (v ruleMapView) RuleID() string { return cast.ToString(v.m["rule_id"]) }

func (v ruleMapView) Active() bool {
	value, ok := v.m["active"]
	if !ok || value == nil {
		return true
	}
	return cast.ToBool(value)
}

func (v ruleMapView) StudentLevel() string      { return cast.ToString(v.m["student_level"]) }
func (v ruleMapView) InterestTags() []string    { return asStringList(v.m["interest_tags"]) }
func (v ruleMapView) DestinationTags() []string { return asStringList(v.m["destination_tags"]) }

func (v ruleMapView) MinSPMCredits() (int, bool) {
	value := v.lookup("min_spm_credits")
	if value == nil {
		return 0, false
	}
	return cast.ToInt(value), true
}

func (v ruleMapView) RequiredSubjects() map[string]string {
	return asStringMapString(v.lookup("required_subjects", "required_subjects_json"))
}

func (v ruleMapView) MinCGPA() (float64, bool) {
	value := v.lookup("min_cgpa")
	if value == nil {
		return 0, false
	}
	return cast.ToFloat64(value), true
}

func (v ruleMapView) BudgetMin() int     { return cast.ToInt(v.m["budget_min"]) }
func (v ruleMapView) BudgetMax() int     { return cast.ToInt(v.m["budget_max"]) }
func (v ruleMapView) EnglishMin() string { return cast.ToString(v.m["english_min"]) }

func (v ruleMapView) Constraints() map[string]interface{} {
	return cast.ToStringMap(v.lookup("constraints", "constraints_json"))
}

func (v ruleMapView) PathwayTitle() string          { return cast.ToString(v.m["pathway_title"]) }
func (v ruleMapView) PathwaySummary() string        { return cast.ToString(v.m["pathway_summary"]) }
func (v ruleMapView) CostEstimateText() string      { return cast.ToString(v.m["cost_estimate_text"]) }
func (v ruleMapView) VisaNote() string              { return cast.ToString(v.m["visa_note"]) }
func (v ruleMapView) ScholarshipLikelihood() string { return cast.ToString(v.m["scholarship_likelihood"]) }
func (v ruleMapView) ReadinessGaps() []string       { return asStringList(v.m["readiness_gaps"]) }
func (v ruleMapView) NextSteps() string             { return cast.ToString(v.m["next_steps"]) }
func (v ruleMapView) PriorityWeight() int           { return cast.ToInt(v.m["priority_weight"]) }

// lookup tries each key in order and returns the first non-nil value, so
// payloads may use either the clean name or the legacy *_json column name.
func (v ruleMapView) lookup(keys ...string) interface{} {
	for _, key := range keys {
		if value, ok := v.m[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

// ProgramOf wraps a catalog program record.
func ProgramOf(p *models.UniversityProgram) ProgramView { return programStructView{p} }

// ProgramsOf wraps a slice of catalog program records.
func ProgramsOf(programs []models.UniversityProgram) []ProgramView {
	views := make([]ProgramView, len(programs))
	for i := range programs {
		views[i] = programStructView{&programs[i]}
	}
	return views
}

type programStructView struct{ p *models.UniversityProgram }

func (v programStructView) ProgramCode() string             { return v.p.ProgramCode }
func (v programStructView) Active() bool                    { return v.p.Active }
func (v programStructView) UniversityName() string          { return v.p.UniversityName }
func (v programStructView) Country() string                 { return v.p.Country }
func (v programStructView) ProgramName() string             { return v.p.ProgramName }
func (v programStructView) ProgramLevel() string            { return v.p.ProgramLevel }
func (v programStructView) FieldTags() []string             { return v.p.FieldTags }
func (v programStructView) IntakeTerms() []string           { return v.p.IntakeTerms }
func (v programStructView) ApplicationDeadlineText() string { return v.p.ApplicationDeadlineText }

func (v programStructView) AdmissionRequirements() map[string]interface{} {
	return v.p.AdmissionRequirements
}

func (v programStructView) TuitionYearlyMin() int { return v.p.TuitionYearlyMinMYR }
func (v programStructView) TuitionYearlyMax() int { return v.p.TuitionYearlyMaxMYR }
func (v programStructView) IELTSMin() float64     { return v.p.IELTSMin }
func (v programStructView) TOEFLMin() int         { return v.p.TOEFLMin }

func (v programStructView) QSOverallRank() (int, bool) {
	if v.p.QSOverallRank == nil {
		return 0, false
	}
	return *v.p.QSOverallRank, true
}

func (v programStructView) MOHEListed() bool              { return v.p.MOHEListed }
func (v programStructView) PTPTNEligible() bool           { return v.p.PTPTNEligible }
func (v programStructView) SourceCodes() []string         { return v.p.SourceCodes }
func (v programStructView) SourceURLs() map[string]string { return v.p.SourceURLs }
func (v programStructView) ApplicationURL() string        { return v.p.ApplicationURL }
func (v programStructView) ContactEmail() string          { return v.p.ContactEmail }

// ProgramFromMap wraps a raw program payload.
func ProgramFromMap(m map[string]interface{}) ProgramView { return programMapView{m} }

// ProgramsFromMaps wraps a slice of raw program payloads.
func ProgramsFromMaps(maps []map[string]interface{}) []ProgramView {
	views := make([]ProgramView, len(maps))
	for i := range maps {
		views[i] = programMapView{maps[i]}
	}
	return views
}

type programMapView struct{ m map[string]interface{} }

func (v programMapView) ProgramCode() string { return cast.ToString(v.m["program_code"]) }

func (v programMapView) Active() bool {
	value, ok := v.m["active"]
	if !ok || value == nil {
		return true
	}
	return cast.ToBool(value)
}

func (v programMapView) UniversityName() string { return cast.ToString(v.m["university_name"]) }
func (v programMapView) Country() string        { return cast.ToString(v.m["country"]) }
func (v programMapView) ProgramName() string    { return cast.ToString(v.m["program_name"]) }
func (v programMapView) ProgramLevel() string   { return cast.ToString(v.m["program_level"]) }
func (v programMapView) FieldTags() []string    { return asStringList(v.m["field_tags"]) }
func (v programMapView) IntakeTerms() []string  { return asStringList(v.m["intake_terms"]) }

func (v programMapView) ApplicationDeadlineText() string {
	return cast.ToString(v.m["application_deadline_text"])
}

func (v programMapView) AdmissionRequirements() map[string]interface{} {
	return cast.ToStringMap(v.lookup("admission_requirements", "admission_requirements_json"))
}

func (v programMapView) TuitionYearlyMin() int { return cast.ToInt(v.m["tuition_yearly_min_myr"]) }
func (v programMapView) TuitionYearlyMax() int { return cast.ToInt(v.m["tuition_yearly_max_myr"]) }
func (v programMapView) IELTSMin() float64     { return cast.ToFloat64(v.m["ielts_min"]) }
func (v programMapView) TOEFLMin() int         { return cast.ToInt(v.m["toefl_min"]) }

func (v programMapView) QSOverallRank() (int, bool) {
	value, ok := v.m["qs_overall_rank"]
	if !ok || value == nil {
		return 0, false
	}
	return cast.ToInt(value), true
}

func (v programMapView) MOHEListed() bool    { return cast.ToBool(v.m["mohe_listed"]) }
func (v programMapView) PTPTNEligible() bool { return cast.ToBool(v.m["ptptn_eligible"]) }
func (v programMapView) SourceCodes() []string { return asStringList(v.m["source_codes"]) }

func (v programMapView) SourceURLs() map[string]string {
	return asStringMapString(v.lookup("source_urls", "source_urls_json"))
}

func (v programMapView) ApplicationURL() string { return cast.ToString(v.m["application_url"]) }
func (v programMapView) ContactEmail() string   { return cast.ToString(v.m["contact_email"]) }

func (v programMapView) lookup(keys ...string) interface{} {
	for _, key := range keys {
		if value, ok := v.m[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

// asStringList coerces list-ish values. A bare string becomes a single-item
// list rather than being split, which cast.ToStringSlice would do.
func asStringList(value interface{}) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case []string:
		return typed
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	case []interface{}:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, cast.ToString(item))
		}
		return out
	default:
		return cast.ToStringSlice(value)
	}
}

func asStringMapString(value interface{}) map[string]string {
	if value == nil {
		return nil
	}
	return cast.ToStringMapString(value)
}
