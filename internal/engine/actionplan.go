package engine

import (
	"strings"

	"pathway-workers/internal/models"
)

// BuildActionPlan assembles 7-day and 30-day action lists from the baseline
// items plus extras driven by the profile and the aggregated missing
// conditions. Lists are capped at 5 and 6 items.
func BuildActionPlan(p *models.StudentProfile, missingItems []string) models.ActionPlan {
	sevenDay := []string{
		"Shortlist two realistic pathways and discuss with a counselor/mentor.",
		"Collect latest academic transcript and supporting documents.",
		"Draft a simple CV and personal statement outline.",
	}
	thirtyDay := []string{
		"Follow a weekly English improvement routine (speaking + writing).",
		"Build one portfolio artifact relevant to your target field.",
		"Contact at least 3 institutions for entry and cost clarification.",
		"Track scholarship deadlines and required documents.",
	}

	for _, item := range missingItems {
		if strings.Contains(item, "English") {
			sevenDay = append(sevenDay, "Take a free English placement test and set a target score.")
			break
		}
	}

	if p.ScholarshipNeeded {
		thirtyDay = append(thirtyDay, "Prepare scholarship narrative and referee contact list.")
	}
	if p.NeedWorkPartTime {
		thirtyDay = append(thirtyDay, "Map study schedule with legal and institution work limits.")
	}

	return models.ActionPlan{
		SevenDayActions: truncate(sevenDay, 5),
		ThirtyDayPlan:   truncate(thirtyDay, 6),
	}
}
