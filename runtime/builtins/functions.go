package builtins

import (
	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/validate"
)

func ov(params ...validate.Parameter) validate.Overload {
	return validate.Overload{Parameters: params}
}

func named(name string, t *typesys.TypeInfo) validate.SingleParameter {
	return validate.SingleParameter{Name: name, Type: t}
}

func out(name string, t *typesys.TypeInfo) validate.SingleParameter {
	return validate.SingleParameter{Name: name, Type: t, Out: true}
}

func init() {
	registerFunctions()
	registerArrayMembers()
	registerRecordMembers()
	registerFieldMembers()
	registerRowsetMembers()
	registerFileMembers()
}

func registerFunctions() {
	str := typesys.TypeString
	num := typesys.TypeNumber
	integer := typesys.TypeInteger
	boolean := typesys.TypeBoolean
	date := typesys.TypeDate
	any := typesys.TypeAny

	// String functions
	register(&Function{Name: "Len",
		Overloads: []validate.Overload{ov(named("str", str))},
		Return:    integer})
	register(&Function{Name: "Left",
		Overloads: []validate.Overload{ov(named("str", str), named("count", num))},
		Return:    str})
	register(&Function{Name: "Right",
		Overloads: []validate.Overload{ov(named("str", str), named("count", num))},
		Return:    str})
	register(&Function{Name: "Substring",
		Overloads: []validate.Overload{ov(named("source", str), named("start", num), named("length", num))},
		Return:    str})
	register(&Function{Name: "Upper",
		Overloads: []validate.Overload{ov(named("str", str))},
		Return:    str})
	register(&Function{Name: "Lower",
		Overloads: []validate.Overload{ov(named("str", str))},
		Return:    str})
	register(&Function{Name: "Find",
		Overloads: []validate.Overload{ov(
			named("needle", str), named("haystack", str),
			validate.Optional(named("start", num)),
		)},
		Return: integer})
	register(&Function{Name: "String",
		Overloads: []validate.Overload{ov(named("value", any))},
		Return:    str})
	register(&Function{Name: "Value",
		Overloads: []validate.Overload{ov(named("str", str))},
		Return:    num})

	// Numeric functions
	register(&Function{Name: "Abs",
		Overloads: []validate.Overload{ov(named("value", num))},
		Return:    num})
	register(&Function{Name: "Round",
		Overloads: []validate.Overload{ov(named("value", num), named("digits", num))},
		Return:    num})
	register(&Function{Name: "Truncate",
		Overloads: []validate.Overload{ov(named("value", num), named("digits", num))},
		Return:    num})
	register(&Function{Name: "Mod",
		Overloads: []validate.Overload{ov(named("dividend", num), named("divisor", num))},
		Return:    num})

	// Date functions
	register(&Function{Name: "DateValue",
		Overloads: []validate.Overload{ov(named("str", str))},
		Return:    date})
	register(&Function{Name: "AddToDate",
		Overloads: []validate.Overload{ov(
			named("date", date), named("years", num), named("months", num), named("days", num),
		)},
		Return: date})
	register(&Function{Name: "Weekday",
		Overloads: []validate.Overload{ov(named("date", date))},
		Return:    integer})

	// Object factories
	register(&Function{Name: "CreateRecord",
		Overloads: []validate.Overload{ov(validate.Reference(typesys.RefRecord))},
		Return:    typesys.NewBuiltinObject("Record")})
	register(&Function{Name: "CreateRowset",
		Overloads: []validate.Overload{ov(
			validate.Reference(typesys.RefRecord),
			validate.Variadic(validate.Reference(typesys.RefRecord)),
		)},
		Return: typesys.NewBuiltinObject("Rowset")})
	register(&Function{Name: "GetFile",
		Overloads: []validate.Overload{ov(
			named("name", str), named("mode", str), validate.Optional(named("charset", str)),
		)},
		Return: typesys.NewBuiltinObject("File")})
	register(&Function{Name: "CreateArray",
		Overloads: []validate.Overload{ov(named("first", any), validate.Variadic(named("rest", any)))},
		Return:    typesys.NewPolymorphic(typesys.PolyArrayOfFirstParameter)})
	register(&Function{Name: "CreateArrayRept",
		Overloads: []validate.Overload{ov(named("value", any), named("count", integer))},
		Return:    typesys.NewPolymorphic(typesys.PolyArrayOfFirstParameter)})
	register(&Function{Name: "Clone",
		Overloads: []validate.Overload{ov(named("object", typesys.TypeObject))},
		Return:    typesys.NewPolymorphic(typesys.PolySameAsFirstParameter)})

	// SQL and messaging
	register(&Function{Name: "SQLExec",
		Overloads: []validate.Overload{ov(
			validate.UnionParameter{Name: "sql", Options: []*typesys.TypeInfo{str, typesys.NewReference(typesys.RefSQL)}},
			validate.Variadic(out("bind", any)),
		)},
		Return: boolean})
	register(&Function{Name: "MsgGet",
		Overloads: []validate.Overload{ov(
			named("messageSet", num), named("messageNum", num), named("default", str),
			validate.Variadic(named("substitution", any)),
		)},
		Return: str})
	register(&Function{Name: "MessageBox",
		Overloads: []validate.Overload{ov(
			named("style", num), named("title", str),
			named("messageSet", num), named("messageNum", num), named("default", str),
			validate.Variadic(named("substitution", any)),
		)},
		Return: integer})
	register(&Function{Name: "WinMessage",
		Overloads: []validate.Overload{ov(
			named("message", str),
			validate.Optional(named("style", num), validate.Optional(named("title", str))),
		)},
		Return: integer})

	// Misc
	register(&Function{Name: "All",
		Overloads: []validate.Overload{ov(named("first", any), validate.Variadic(named("rest", any)))},
		Return:    boolean})
	register(&Function{Name: "None",
		Overloads: []validate.Overload{ov(named("first", any), validate.Variadic(named("rest", any)))},
		Return:    boolean})
	register(&Function{Name: "Error",
		Overloads: []validate.Overload{ov(named("message", str))}})
	register(&Function{Name: "Warning",
		Overloads: []validate.Overload{ov(named("message", str))}})
	register(&Function{Name: "Exit",
		Overloads: []validate.Overload{ov(validate.Optional(named("code", num)))}})
	register(&Function{Name: "TransferPage",
		Overloads: []validate.Overload{ov(validate.Optional(validate.Reference(typesys.RefPage)))},
		Return:    boolean})
}
