package model

// operatorNames maps C++ operator spellings to the readable names used when
// tagging them in generated documents.
var operatorNames = map[string]string{
	"operator=":   "_assign",
	"operator++":  "_increment",
	"operator--":  "_decrement",
	"operator==":  "_equals",
	"operator!=":  "_not_equals",
	"operator+":   "_plus",
	"operator+=":  "_plus_assign",
	"operator-":   "_minus",
	"operator-=":  "_minus_assign",
	"operator*":   "_multiply",
	"operator*=":  "_multiply_assign",
	"operator/":   "_divide",
	"operator/=":  "_divide_assign",
	"operator%":   "_modulo",
	"operator%=":  "_modulo_assign",
	"operator^":   "_xor",
	"operator^=":  "_xor_assign",
	"operator&":   "_and",
	"operator&=":  "_and_assign",
	"operator|":   "_or",
	"operator|=":  "_or_assign",
	"operator<":   "_less_than",
	"operator<=":  "_less_than_equals",
	"operator>":   "_greater_than",
	"operator>=":  "_greater_than_equals",
	"operator<<":  "_left_shift",
	"operator<<=": "_left_shift_assign",
	"operator>>":  "_right_shift",
	"operator>>=": "_right_shift_assign",
	"operator&&":  "_logical_and",
	"operator||":  "_logical_or",
	"operator[]":  "_subscript",
}

// TaggingNameFor returns the name a callable is tagged with: operators map
// to readable names, everything else keeps its AST spelling.
func TaggingNameFor(astName string) string {
	if mapped, ok := operatorNames[astName]; ok {
		return mapped
	}
	return astName
}
