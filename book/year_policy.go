package book

import "strings"

/* Usar o compilador a seu favor: a regra do ano é um tipo, não uma string solta */

// YearPolicy decides how strictly the year field is validated
type YearPolicy int

const (
	// YearFreeform accepts any text, e.g. "c. 1600"
	YearFreeform YearPolicy = iota + 1
	// YearNumeric requires a whole number when a year is given
	YearNumeric
)

func (p YearPolicy) String() string {
	switch p {
	case YearFreeform:
		return "freeform"
	case YearNumeric:
		return "numeric"
	}
	return "unknown"
}

// NewYearPolicy parses a config value, falling back to YearNumeric
func NewYearPolicy(s string) YearPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freeform", "free", "text":
		return YearFreeform
	case "numeric", "number", "strict":
		return YearNumeric
	}
	return YearNumeric
}
