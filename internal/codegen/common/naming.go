package common

import (
	"github.com/stoewer/go-strcase"
)

// Field key casing modes for emitted record members.
const (
	FieldCasePreserve = "preserve"
	FieldCaseCamel    = "camel"
)

// FieldKey returns the property name a record field is emitted under.
func FieldKey(name, fieldCase string) string {
	if fieldCase == FieldCaseCamel {
		return SanitizeLeadingDigit(strcase.LowerCamelCase(name))
	}
	return name
}

// SanitizeLeadingDigit prefixes names that start with a digit with "Num"
// to keep identifiers valid in target languages.
func SanitizeLeadingDigit(name string) string {
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "Num" + name
	}
	return name
}
