package repository

import (
	"regexp"
	"strings"
)

// mutationPattern is a substring heuristic, not a parse: "SELECT * FROM
// created_log" matches too. Callers rely on exactly this behavior.
var mutationPattern = regexp.MustCompile(`(?i)insert|update|delete|alter|create|drop`)

var rowProducingKeywords = map[string]struct{}{
	"SELECT":  {},
	"WITH":    {},
	"VALUES":  {},
	"SHOW":    {},
	"EXPLAIN": {},
	"PRAGMA":  {},
	"TABLE":   {},
}

var returningPattern = regexp.MustCompile(`(?i)\breturning\b`)

// isMutation reports whether a raw statement should trigger a data_changed
// notification.
func isMutation(sql string) bool {
	return mutationPattern.MatchString(sql)
}

// leadingKeyword returns the first word of sql, upper-cased, skipping
// leading whitespace, parentheses and SQL comments.
func leadingKeyword(sql string) string {
	s := strings.TrimSpace(sql)
	for {
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+1:])
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx < 0 {
				return ""
			}
			s = strings.TrimSpace(s[idx+2:])
		case strings.HasPrefix(s, "("):
			s = strings.TrimSpace(s[1:])
		default:
			end := strings.IndexFunc(s, func(r rune) bool {
				return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_')
			})
			if end < 0 {
				end = len(s)
			}
			return strings.ToUpper(s[:end])
		}
	}
}

// producesRows decides whether sql is run as a query or as a statement.
func producesRows(sql string) bool {
	if _, ok := rowProducingKeywords[leadingKeyword(sql)]; ok {
		return true
	}
	return returningPattern.MatchString(sql)
}
