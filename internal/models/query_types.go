// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeRulesByLevel   QueryType = "rules_by_level"
	QueryTypeRuleDetails    QueryType = "rule_details"
	QueryTypeActivePrograms QueryType = "active_programs"
	QueryTypeProgramDetails QueryType = "program_details"
	QueryTypeSessionResults QueryType = "session_results"
)
