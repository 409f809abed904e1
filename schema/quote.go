package schema

import "strings"

// QuoteMySQL quotes an identifier with backticks, doubling embedded
// backticks.
func QuoteMySQL(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuotePg quotes an identifier with double quotes, doubling embedded
// double quotes.
func QuotePg(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// StringConstant renders a single-quoted SQL string literal, doubling
// embedded single quotes.
func StringConstant(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
