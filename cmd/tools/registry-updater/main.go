// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"pathway-workers/internal/common/errors"
	"pathway-workers/pkg/registry"
)

var registryPath = "configs/registry.json"

func main() {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	generateCmd.StringVar(&registryPath, "path", registryPath, "Path to registry file")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&registryPath, "path", registryPath, "Path to registry file")

	validateCmd.StringVar(&registryPath, "path", registryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateCmd.Parse(os.Args[2:])
		reg, err := generateRegistry()
		if err != nil {
			fmt.Printf("Error generating registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated registry with %d activities at %s\n", len(reg.Activities), registryPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := updateActivity(*idUpdate, *field, *value)
		if err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err := validateRegistry()
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

// generateRegistry rebuilds the registry document from the activity table
// below and overwrites the file at registryPath. Manual edits made through
// the update command are lost, so run update after generate.
func generateRegistry() (*registry.ActivityRegistry, error) {
	reg := &registry.ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().Format(time.RFC3339),
		Activities:  knownActivities(),
	}
	if err := registry.Validate(reg); err != nil {
		return nil, fmt.Errorf("generated registry is invalid: %w", err)
	}
	if err := registry.SaveRegistry(registryPath, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			found = true
			switch field {
			case "status":
				reg.Activities[i].ImplementationStatus = value
			case "version":
				reg.Activities[i].Version = value
			case "displayName":
				reg.Activities[i].DisplayName = value
			case "description":
				reg.Activities[i].Description = value
			case "category":
				reg.Activities[i].Category = value
			case "taskType":
				reg.Activities[i].TaskType = value
			case "timeout":
				reg.Activities[i].Timeout = value
			case "retries":
				retries, err := strconv.Atoi(value)
				if err != nil {
					return fmt.Errorf("invalid retries value: %w", err)
				}
				reg.Activities[i].Retries = retries
			default:
				return fmt.Errorf("unknown field: %s", field)
			}
			break
		}
	}

	if !found {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	if err := registry.Validate(reg); err != nil {
		return fmt.Errorf("update rejected: %w", err)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.SaveRegistry(registryPath, reg)
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := registry.Validate(reg); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// objectSchema describes a job-variable envelope: only the top-level
// variable names are recorded, the workers enforce field-level rules.
func objectSchema(required ...string) map[string]interface{} {
	s := map[string]interface{}{"type": "object"}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// knownActivities is the source of truth for generate. Task types and error
// codes must match the worker packages under internal/workers. Retry budgets
// are derived from the error taxonomy: an activity gets the largest retry
// count among the codes it can throw.
func knownActivities() []registry.Activity {
	activities := []registry.Activity{
		{
			ID:                   "validate-profile",
			DisplayName:          "Validate Student Profile",
			Description:          "Validates the wizard-collected profile against the profile schema and returns the normalized form",
			Category:             registry.CategoryEvaluation,
			Version:              "1.0.0",
			TaskType:             "validate-student-profile",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema("profile"),
			OutputSchema:         objectSchema("profileValid", "validationErrors", "normalizedProfile"),
			ErrorCodes:           []string{"PARSE_ERROR", "PROFILE_PARSE_FAILED", "PROFILE_VALIDATION_FAILED"},
			Timeout:              "10s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"evaluation", "profile"},
		},
		{
			ID:                   "query-catalog",
			DisplayName:          "Query Catalog",
			Description:          "Dispatches catalog queries (rules, programs, sessions) against Postgres",
			Category:             registry.CategoryCatalog,
			Version:              "1.0.0",
			TaskType:             "query-catalog",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema("queryType"),
			OutputSchema:         objectSchema("data", "rowCount", "queryExecutionTime"),
			ErrorCodes:           []string{"PARSE_ERROR", "INVALID_QUERY_TYPE", "DATABASE_CONNECTION_FAILED", "QUERY_EXECUTION_FAILED", "QUERY_TIMEOUT"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"catalog", "postgres"},
		},
		{
			ID:                   "evaluate-pathways",
			DisplayName:          "Evaluate Pathways",
			Description:          "Scores the student profile against pathway rules and university programs, with cached results per session",
			Category:             registry.CategoryEvaluation,
			Version:              "1.0.0",
			TaskType:             "evaluate-pathways",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema("profile"),
			OutputSchema:         objectSchema("result", "noMatch", "readinessScore", "recommendationCount"),
			ErrorCodes:           []string{"PARSE_ERROR", "PROFILE_PARSE_FAILED", "EVALUATION_FAILED", "CATALOG_EMPTY"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"evaluation", "engine", "cache"},
		},
		{
			ID:                   "check-readiness-score",
			DisplayName:          "Check Readiness Score",
			Description:          "Scores profile readiness and classifies the high/medium/low band for gateway decisions",
			Category:             registry.CategoryEvaluation,
			Version:              "1.0.0",
			TaskType:             "check-readiness-score",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema(),
			OutputSchema:         objectSchema("readinessScore", "readinessBand", "readinessBreakdown"),
			ErrorCodes:           []string{"PARSE_ERROR", "PROFILE_PARSE_FAILED"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"evaluation", "readiness"},
		},
		{
			ID:                   "route-outcome",
			DisplayName:          "Route Evaluation Outcome",
			Description:          "Combines evaluation outcome, timeline urgency, and organization tier into a counselor routing priority",
			Category:             registry.CategoryEvaluation,
			Version:              "1.0.0",
			TaskType:             "route-evaluation-outcome",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema(),
			OutputSchema:         objectSchema("routingPriority", "escalateToCounselor", "orgTier", "readinessBand"),
			ErrorCodes:           []string{"PARSE_ERROR", "ROUTING_CHECK_FAILED"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"evaluation", "routing"},
		},
		{
			ID:                   "build-action-plan",
			DisplayName:          "Build Action Plan",
			Description:          "Builds the seven-day and thirty-day action plans, plus the recovery plan on a no-match outcome",
			Category:             registry.CategoryPlanning,
			Version:              "1.0.0",
			TaskType:             "build-action-plan",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema("profile"),
			OutputSchema:         objectSchema("sevenDayActions", "thirtyDayPlan"),
			ErrorCodes:           []string{"PARSE_ERROR", "PROFILE_PARSE_FAILED"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"planning", "recovery"},
		},
		{
			ID:                   "search-programs",
			DisplayName:          "Search Programs",
			Description:          "Full-text and filtered search over the university programs index",
			Category:             registry.CategoryCatalog,
			Version:              "1.0.0",
			TaskType:             "search-programs",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema(),
			OutputSchema:         objectSchema("data", "totalHits", "maxScore", "took"),
			ErrorCodes:           []string{"PARSE_ERROR", "SEARCH_QUERY_FAILED", "SEARCH_CONNECTION_FAILED", "SEARCH_TIMEOUT", "INDEX_NOT_FOUND"},
			Timeout:              "30s",
			Workflows:            []string{"counselor-program-search"},
			Tags:                 []string{"catalog", "elasticsearch"},
		},
		{
			ID:                   "verify-sources",
			DisplayName:          "Verify Catalog Sources",
			Description:          "Sweeps registered catalog source URLs for reachability and records the outcome",
			Category:             registry.CategoryCatalog,
			Version:              "1.0.0",
			TaskType:             "verify-catalog-sources",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema(),
			OutputSchema:         objectSchema("sourcesChecked", "sourcesOk", "sourcesFailed", "results", "checkedAt"),
			ErrorCodes:           []string{"PARSE_ERROR", "SOURCE_CHECK_FAILED", "SOURCE_TIMEOUT"},
			Timeout:              "60s",
			Workflows:            []string{"catalog-maintenance"},
			Tags:                 []string{"catalog", "http"},
		},
		{
			ID:                   "create-session-record",
			DisplayName:          "Create Session Record",
			Description:          "Persists the evaluation session, inputs, and recommendations when the student consents",
			Category:             registry.CategorySession,
			Version:              "1.0.0",
			TaskType:             "create-session-record",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema(),
			OutputSchema:         objectSchema("sessionRecordId", "recommendationId", "saved", "savedAt"),
			ErrorCodes:           []string{"PARSE_ERROR", "SESSION_WRITE_FAILED", "DUPLICATE_SESSION"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"session", "postgres"},
		},
		{
			ID:                   "notify-plan-ready",
			DisplayName:          "Notify Plan Ready",
			Description:          "Sends the plan-ready email or SMS once the evaluation outcome is recorded",
			Category:             registry.CategoryNotification,
			Version:              "1.0.0",
			TaskType:             "notify-plan-ready",
			ImplementationStatus: "completed",
			InputSchema:          objectSchema("sessionId"),
			OutputSchema:         objectSchema("notificationId", "status", "sentAt"),
			ErrorCodes:           []string{"PARSE_ERROR", "NOTIFICATION_SEND_FAILED"},
			Timeout:              "30s",
			Workflows:            []string{"student-evaluation"},
			Tags:                 []string{"notification", "ses", "sns"},
		},
	}

	for i := range activities {
		activities[i].Retries = maxRetryCount(activities[i].ErrorCodes)
	}
	return activities
}

func maxRetryCount(codes []string) int {
	highest := 0
	for _, code := range codes {
		if n := errors.GetRetryCount(errors.ErrorCode(code)); n > highest {
			highest = n
		}
	}
	return highest
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  generate Rebuild the registry file from the built-in activity table
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater generate -path configs/registry.json
  registry-updater update -id evaluate-pathways -field status -value verified
  registry-updater validate -path configs/registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
