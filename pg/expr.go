package pg

import (
	pg_query "github.com/pganalyze/pg_query_go/v2"
)

// exprTokens lexes a SQL fragment into its token texts, dropping whitespace
// and comments. A scan failure returns nil.
func exprTokens(input string) []string {
	result, err := pg_query.Scan(input)
	if err != nil {
		return nil
	}
	tokens := make([]string, 0, len(result.Tokens))
	for _, t := range result.Tokens {
		if t.Token == pg_query.Token_SQL_COMMENT || t.Token == pg_query.Token_C_COMMENT {
			continue
		}
		tokens = append(tokens, input[t.Start:t.End])
	}
	return tokens
}

// exprEquivalent reports whether two SQL expressions differ only in
// whitespace or comments. Fingerprinting is deliberately not used here: it
// normalizes literal constants away, and `price > 0` versus `price > 100`
// must count as a change. Input the lexer rejects falls back to exact
// string comparison.
func exprEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	ta := exprTokens(a)
	tb := exprTokens(b)
	if ta == nil || tb == nil || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

// queryEquivalent is exprEquivalent for full statements, such as view
// definitions and rule actions.
func queryEquivalent(a, b string) bool {
	return exprEquivalent(a, b)
}
