// Package engine implements the pathway evaluation core: rule gating, fit
// and readiness scoring, recovery and action planning, and university
// program matching. The engine is pure and synchronous. It performs no I/O,
// never mutates its inputs, and is safe for concurrent use.
package engine

import (
	"math"
	"sort"
	"strings"
)

// gradeScale ranks SPM subject grades on a fixed 10-point ordinal scale.
var gradeScale = map[string]int{
	"G":  0,
	"E":  1,
	"D":  2,
	"C":  3,
	"C+": 4,
	"B":  5,
	"B+": 6,
	"A-": 7,
	"A":  8,
	"A+": 9,
}

// englishLevels ranks self-assessed English proficiency.
var englishLevels = map[string]int{
	"Beginner":     0,
	"Intermediate": 1,
	"Advanced":     2,
}

var monthToNum = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// GradeRank returns the ordinal rank of an SPM grade. ok is false for
// unrecognized grades.
func GradeRank(grade string) (int, bool) {
	rank, ok := gradeScale[strings.ToUpper(strings.TrimSpace(grade))]
	return rank, ok
}

// EnglishRank returns the ordinal rank of an English level, 0 when unknown.
func EnglishRank(level string) int {
	return englishLevels[level]
}

// MonthNumber resolves a full English month name to 1..12.
func MonthNumber(name string) (int, bool) {
	n, ok := monthToNum[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// gradeMeets reports whether a student grade satisfies a required grade.
// Unknown student grades never satisfy; unknown required grades are
// unsatisfiable.
func gradeMeets(studentGrade, requiredGrade string) bool {
	got, ok := GradeRank(studentGrade)
	if !ok {
		got = -1
	}
	need, ok := GradeRank(requiredGrade)
	if !ok {
		need = 99
	}
	return got >= need
}

// englishMeets mirrors gradeMeets for English levels.
func englishMeets(studentLevel, requiredLevel string) bool {
	got, ok := englishLevels[studentLevel]
	if !ok {
		got = -1
	}
	need, ok := englishLevels[requiredLevel]
	if !ok {
		need = 99
	}
	return got >= need
}

// normSet lowercases, trims, and dedups a tag list into a set.
func normSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func setHas(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func setsIntersect(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// intersection returns the sorted common members of two sets.
func intersection(a, b map[string]struct{}) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// difference returns the sorted members of a not present in b.
func difference(a, b map[string]struct{}) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sortedKeys returns map keys in sorted order so evaluation order (and with
// it short-circuit behavior) is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lowerKeyed copies a subject map with lowercased keys.
func lowerKeyed(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// dedupSorted returns the sorted unique members of a list.
func dedupSorted(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// truncate caps a list at n items without mutating the backing array.
func truncate(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}

// nonNilStrings maps a nil slice to an empty one so JSON output carries
// arrays, never null.
func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
