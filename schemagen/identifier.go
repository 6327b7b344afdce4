package schemagen

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// identifierPrefix is prepended when normalization leaves an empty token or
// one that begins with a digit.
const identifierPrefix = "Col"

// reservedWords holds the SQL Server reserved keywords that plausibly show
// up as header tokens in source exports. Matching is case-insensitive.
var reservedWords = map[string]struct{}{
	"ADD": {}, "ALL": {}, "ALTER": {}, "AND": {}, "ANY": {}, "AS": {},
	"ASC": {}, "BETWEEN": {}, "BY": {}, "CASE": {}, "CHECK": {},
	"COLUMN": {}, "CREATE": {}, "CURRENT_DATE": {}, "CURRENT_TIME": {},
	"DATABASE": {}, "DATE": {}, "DEFAULT": {}, "DELETE": {}, "DESC": {},
	"DISTINCT": {}, "DROP": {}, "ELSE": {}, "END": {}, "EXEC": {},
	"EXISTS": {}, "FILE": {}, "FROM": {}, "GROUP": {}, "HAVING": {},
	"IDENTITY": {}, "IN": {}, "INDEX": {}, "INSERT": {}, "INTO": {},
	"IS": {}, "JOIN": {}, "KEY": {}, "LEFT": {}, "LIKE": {}, "NOT": {},
	"NULL": {}, "ON": {}, "OR": {}, "ORDER": {}, "OUTER": {},
	"PERCENT": {}, "PLAN": {}, "PRIMARY": {}, "PROC": {}, "PROCEDURE": {},
	"PUBLIC": {}, "RIGHT": {}, "ROWCOUNT": {}, "RULE": {}, "SCHEMA": {},
	"SELECT": {}, "SET": {}, "TABLE": {}, "TOP": {}, "TRIGGER": {},
	"UNION": {}, "UNIQUE": {}, "UPDATE": {}, "USER": {}, "VALUES": {},
	"VIEW": {}, "WHERE": {},
}

// accentFolder decomposes characters and strips combining marks, so that
// e.g. "Código" folds to "Codigo" before the identifier rules run.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}

func isIdentifierRune(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// normalizeToken applies the pure rewriting rules without uniqueness
// handling: accent folding, trimming, replacing runs of disallowed
// characters with a single underscore, and prefixing when the result is
// empty or starts with a digit. Idempotent.
func normalizeToken(token string) string {
	folded := foldAccents(strings.TrimSpace(token))

	var b strings.Builder
	pendingUnderscore := false
	for _, r := range folded {
		if isIdentifierRune(r) && r != '_' {
			if pendingUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingUnderscore = false
			b.WriteRune(r)
			continue
		}
		pendingUnderscore = true
	}

	name := b.String()
	switch {
	case name == "":
		return identifierPrefix
	case name[0] >= '0' && name[0] <= '9':
		return identifierPrefix + "_" + name
	default:
		return name
	}
}

// NormalizeIdentifier maps an arbitrary header token to a safe SQL
// identifier that is unique with respect to seen. Collisions with reserved
// words or previously assigned identifiers get a numeric suffix, first
// occurrence unchanged. seen keys are upper-cased; the chosen identifier is
// recorded before returning.
func NormalizeIdentifier(token string, seen map[string]struct{}) string {
	base := normalizeToken(token)

	name := base
	for i := 1; taken(name, seen); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	seen[strings.ToUpper(name)] = struct{}{}
	return name
}

func taken(name string, seen map[string]struct{}) bool {
	upper := strings.ToUpper(name)
	if _, reserved := reservedWords[upper]; reserved {
		return true
	}
	_, dup := seen[upper]
	return dup
}
