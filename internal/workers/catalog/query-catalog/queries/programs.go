// internal/workers/catalog/query-catalog/queries/programs.go
package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

func ActivePrograms(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	filters, _ := params["filters"].(map[string]interface{})

	start := time.Now()

	query := `
		SELECT program_code, active, university_name, country, program_name,
		       program_level, field_tags, intake_terms, application_deadline_text,
		       admission_requirements_json, tuition_yearly_min_myr,
		       tuition_yearly_max_myr, ielts_min, toefl_min, qs_overall_rank,
		       mohe_listed, ptptn_eligible, source_codes, source_urls_json,
		       application_url, contact_email
		FROM university_programs
		WHERE active = TRUE`
	var args []interface{}
	if country, ok := filters["country"].(string); ok && country != "" {
		args = append(args, country)
		query += fmt.Sprintf(" AND country = $%d", len(args))
	}
	if level, ok := filters["program_level"].(string); ok && level != "" {
		args = append(args, level)
		query += fmt.Sprintf(" AND program_level = $%d", len(args))
	}
	query += " ORDER BY university_name, program_name"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		result, err := scanProgram(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, result)
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func ProgramDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	programCode, ok := params["programCode"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	row := db.QueryRowContext(ctx, `
		SELECT program_code, active, university_name, country, program_name,
		       program_level, field_tags, intake_terms, application_deadline_text,
		       admission_requirements_json, tuition_yearly_min_myr,
		       tuition_yearly_max_myr, ielts_min, toefl_min, qs_overall_rank,
		       mohe_listed, ptptn_eligible, source_codes, source_urls_json,
		       application_url, contact_email
		FROM university_programs
		WHERE program_code = $1`, programCode)

	result, err := scanProgram(row)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

func scanProgram(row rowScanner) (map[string]interface{}, error) {
	var (
		programCode, universityName, country                  string
		programName, programLevel                             string
		active, moheListed, ptptnEligible                     bool
		fieldTags, intakeTerms, sourceCodes                   []string
		applicationDeadlineText, applicationURL, contactEmail sql.NullString
		admissionRequirementsJSON, sourceURLsJSON             []byte
		tuitionMin, tuitionMax, toeflMin, qsOverallRank       sql.NullInt64
		ieltsMin                                              sql.NullFloat64
	)

	err := row.Scan(
		&programCode, &active, &universityName, &country, &programName,
		&programLevel, pq.Array(&fieldTags), pq.Array(&intakeTerms),
		&applicationDeadlineText, &admissionRequirementsJSON,
		&tuitionMin, &tuitionMax, &ieltsMin, &toeflMin, &qsOverallRank,
		&moheListed, &ptptnEligible, pq.Array(&sourceCodes), &sourceURLsJSON,
		&applicationURL, &contactEmail,
	)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"program_code":              programCode,
		"active":                    active,
		"university_name":           universityName,
		"country":                   country,
		"program_name":              programName,
		"program_level":             programLevel,
		"field_tags":                fieldTags,
		"intake_terms":              intakeTerms,
		"application_deadline_text": applicationDeadlineText.String,
		"admission_requirements":    jsonObject(admissionRequirementsJSON),
		"tuition_yearly_min_myr":    nullableInt(tuitionMin),
		"tuition_yearly_max_myr":    nullableInt(tuitionMax),
		"ielts_min":                 nullableFloat(ieltsMin),
		"toefl_min":                 nullableInt(toeflMin),
		"qs_overall_rank":           nullableInt(qsOverallRank),
		"mohe_listed":               moheListed,
		"ptptn_eligible":            ptptnEligible,
		"source_codes":              sourceCodes,
		"source_urls":               jsonObject(sourceURLsJSON),
		"application_url":           applicationURL.String,
		"contact_email":             contactEmail.String,
	}, nil
}
