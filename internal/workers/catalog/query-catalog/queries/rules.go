// internal/workers/catalog/query-catalog/queries/rules.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

func RulesByLevel(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	level, ok := params["level"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT rule_id, active, student_level, interest_tags, destination_tags,
		       min_spm_credits, required_subjects_json, min_cgpa, budget_min,
		       budget_max, english_min, constraints_json, pathway_title,
		       pathway_summary, cost_estimate_text, visa_note,
		       scholarship_likelihood, readiness_gaps, next_steps, priority_weight
		FROM rules
		WHERE active = TRUE AND student_level = $1
		ORDER BY priority_weight DESC, rule_id`, level)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		result, err := scanRule(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, result)
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// RuleDetails looks up a single rule by its stable rule_id. Inactive rules
// are returned too so counselors can inspect retired pathways.
func RuleDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	ruleID, ok := params["ruleId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	row := db.QueryRowContext(ctx, `
		SELECT rule_id, active, student_level, interest_tags, destination_tags,
		       min_spm_credits, required_subjects_json, min_cgpa, budget_min,
		       budget_max, english_min, constraints_json, pathway_title,
		       pathway_summary, cost_estimate_text, visa_note,
		       scholarship_likelihood, readiness_gaps, next_steps, priority_weight
		FROM rules
		WHERE rule_id = $1`, ruleID)

	result, err := scanRule(row)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// scanRule reads one rules row into the snake_case payload map the map views
// and process variables share.
func scanRule(row rowScanner) (map[string]interface{}, error) {
	var (
		ruleID, studentLevel, pathwayTitle, pathwaySummary string
		costEstimateText, visaNote, scholarshipLikelihood  string
		nextSteps                                          string
		active                                             bool
		priorityWeight                                     int
		interestTags, destinationTags, readinessGaps       []string
		minSPMCredits, budgetMin, budgetMax                sql.NullInt64
		minCGPA                                            sql.NullFloat64
		englishMin                                         sql.NullString
		requiredSubjectsJSON, constraintsJSON              []byte
	)

	err := row.Scan(
		&ruleID, &active, &studentLevel,
		pq.Array(&interestTags), pq.Array(&destinationTags),
		&minSPMCredits, &requiredSubjectsJSON, &minCGPA,
		&budgetMin, &budgetMax, &englishMin, &constraintsJSON,
		&pathwayTitle, &pathwaySummary, &costEstimateText,
		&visaNote, &scholarshipLikelihood, pq.Array(&readinessGaps),
		&nextSteps, &priorityWeight,
	)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"rule_id":                ruleID,
		"active":                 active,
		"student_level":          studentLevel,
		"interest_tags":          interestTags,
		"destination_tags":       destinationTags,
		"min_spm_credits":        nullableInt(minSPMCredits),
		"required_subjects":      jsonObject(requiredSubjectsJSON),
		"min_cgpa":               nullableFloat(minCGPA),
		"budget_min":             nullableInt(budgetMin),
		"budget_max":             nullableInt(budgetMax),
		"english_min":            englishMin.String,
		"constraints":            jsonObject(constraintsJSON),
		"pathway_title":          pathwayTitle,
		"pathway_summary":        pathwaySummary,
		"cost_estimate_text":     costEstimateText,
		"visa_note":              visaNote,
		"scholarship_likelihood": scholarshipLikelihood,
		"readiness_gaps":         readinessGaps,
		"next_steps":             nextSteps,
		"priority_weight":        priorityWeight,
	}, nil
}
