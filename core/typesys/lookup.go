package typesys

import "strings"

var namedTypes = map[string]*TypeInfo{
	"string":   TypeString,
	"integer":  TypeInteger,
	"number":   TypeNumber,
	"float":    TypeNumber, // float collapses into number
	"date":     TypeDate,
	"datetime": TypeDateTime,
	"time":     TypeTime,
	"boolean":  TypeBoolean,
	"any":      TypeAny,
	"object":   TypeObject,
}

// ByName resolves a declared type name: primitives and the special "any" and
// "object" names resolve to their singletons, everything else is treated as
// a builtin object class. Application classes and arrays are spelled
// structurally and never reach this lookup.
func ByName(name string) *TypeInfo {
	if t, ok := namedTypes[strings.ToLower(name)]; ok {
		return t
	}
	return NewBuiltinObject(name)
}

var refCategories = map[string]RefCategory{
	"record":     RefRecord,
	"field":      RefField,
	"sql":        RefSQL,
	"page":       RefPage,
	"component":  RefComponent,
	"menu":       RefMenu,
	"scroll":     RefScroll,
	"html":       RefHTML,
	"image":      RefImage,
	"stylesheet": RefStyleSheet,
	"filelayout": RefFileLayout,
	"operation":  RefOperation,
}

// RefCategoryByName maps a definition-reference prefix (the "Record" in
// Record.FOO) to its category.
func RefCategoryByName(name string) (RefCategory, bool) {
	c, ok := refCategories[strings.ToLower(name)]
	return c, ok
}
