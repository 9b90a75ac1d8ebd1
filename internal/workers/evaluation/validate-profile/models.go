// internal/workers/evaluation/validate-profile/models.go
package validateprofile

import "pathway-workers/internal/models"

type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Profile   map[string]interface{} `json:"profile"`
}

type Output struct {
	ProfileValid      bool                   `json:"profileValid"`
	ValidationErrors  []string               `json:"validationErrors"`
	NormalizedProfile *models.StudentProfile `json:"normalizedProfile"`
}

// profileSchema is the JSON Schema the wizard payload must satisfy before an
// evaluation is attempted. Cross-field requirements (credits for SPM, CGPA
// for Diploma) are enforced in code after the shape check.
func profileSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"student_level"},
		"properties": map[string]interface{}{
			"student_level": map[string]interface{}{
				"type": "string",
				"enum": []string{"SPM", "Diploma"},
			},
			"spm_credits": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 12,
			},
			"subjects": map[string]interface{}{
				"type": "object",
			},
			"cgpa": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 4,
			},
			"diploma_field": map[string]interface{}{
				"type": "string",
			},
			"interest_tags": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"preferred_universities": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"budget_monthly": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
			},
			"english_self": map[string]interface{}{
				"type": "string",
				"enum": []string{"Beginner", "Intermediate", "Advanced"},
			},
			"english_test_score": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
			"ielts_score": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 9,
			},
			"toefl_score": map[string]interface{}{
				"type":    "number",
				"minimum": 0,
				"maximum": 120,
			},
			"destination_preference": map[string]interface{}{
				"type": "string",
				"enum": []string{"malaysia_only", "open_overseas"},
			},
			"destination_tags": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"intake_window": map[string]interface{}{
				"type": "string",
				"enum": []string{"next_3_months", "next_6_12_months", "flexible_local"},
			},
			"target_intake_month": map[string]interface{}{
				"type": "string",
			},
			"target_intake_year": map[string]interface{}{
				"type":    "number",
				"minimum": 2020,
			},
			"timeline_urgency": map[string]interface{}{
				"type": "string",
				"enum": []string{"urgent", "normal", "flexible"},
			},
			"support_constraints": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"preparedness_checklist": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"need_work_part_time": map[string]interface{}{
				"type": "boolean",
			},
			"scholarship_needed": map[string]interface{}{
				"type": "boolean",
			},
			"willing_relocate": map[string]interface{}{
				"type": "boolean",
			},
			"consent_to_save": map[string]interface{}{
				"type": "boolean",
			},
		},
	}
}
