package builtins

import (
	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/validate"
)

func method(name string, ret *typesys.TypeInfo, overloads ...validate.Overload) *Member {
	return &Member{Name: name, Kind: MemberMethod, Return: ret, Overloads: overloads}
}

func property(name string, t *typesys.TypeInfo) *Member {
	return &Member{Name: name, Kind: MemberProperty, Type: t}
}

// Array members resolve against the receiver array, so several returns are
// polymorphic: Clone keeps the receiver type, Get/Pop/Shift peel a dimension.
func registerArrayMembers() {
	elem := typesys.NewPolymorphic(typesys.PolyElementOfObject)
	same := typesys.NewPolymorphic(typesys.PolySameAsObject)
	any := typesys.TypeAny

	registerMember("array", property("Len", typesys.TypeInteger))
	registerMember("array", method("Push", nil, ov(named("value", any))))
	registerMember("array", method("Pop", elem, ov()))
	registerMember("array", method("Shift", elem, ov()))
	registerMember("array", method("Unshift", nil, ov(named("value", any))))
	registerMember("array", method("Get", elem, ov(named("index", typesys.TypeInteger))))
	registerMember("array", method("Clone", same, ov()))
	registerMember("array", method("Reverse", same, ov()))
	registerMember("array", method("Join", typesys.TypeString, ov(
		validate.Optional(named("separator", typesys.TypeString)),
	)))
	registerMember("array", method("Find", typesys.TypeInteger, ov(named("value", any))))
}

func registerRecordMembers() {
	field := typesys.NewBuiltinObject("Field")
	boolean := typesys.TypeBoolean

	registerMember("Record", property("Name", typesys.TypeString))
	registerMember("Record", property("FieldCount", typesys.TypeInteger))
	registerMember("Record", property("IsChanged", boolean))
	registerMember("Record", method("GetField", field, ov(
		validate.UnionParameter{Name: "field", Options: []*typesys.TypeInfo{
			typesys.NewReference(typesys.RefField), typesys.TypeInteger,
		}},
	)))
	registerMember("Record", method("SelectByKey", boolean, ov()))
	registerMember("Record", method("Insert", boolean, ov()))
	registerMember("Record", method("Update", boolean, ov()))
	registerMember("Record", method("Delete", boolean, ov()))
	registerMember("Record", method("CopyFieldsTo", nil, ov(
		named("target", typesys.NewBuiltinObject("Record")),
	)))
}

func registerFieldMembers() {
	registerMember("Field", property("Name", typesys.TypeString))
	registerMember("Field", property("Value", typesys.TypeAny))
	registerMember("Field", property("IsChanged", typesys.TypeBoolean))
	registerMember("Field", property("Visible", typesys.TypeBoolean))
	registerMember("Field", property("Enabled", typesys.TypeBoolean))
	registerMember("Field", method("SetDefault", nil, ov()))
}

func registerRowsetMembers() {
	row := typesys.NewBuiltinObject("Row")

	registerMember("Rowset", property("ActiveRowCount", typesys.TypeInteger))
	registerMember("Rowset", property("RowCount", typesys.TypeInteger))
	registerMember("Rowset", method("GetRow", row, ov(named("index", typesys.TypeInteger))))
	registerMember("Rowset", method("Fill", typesys.TypeInteger, ov(
		validate.Optional(named("where", typesys.TypeString), validate.Variadic(named("bind", typesys.TypeAny))),
	)))
	registerMember("Rowset", method("Flush", nil, ov()))
	registerMember("Rowset", method("Sort", nil, ov(
		named("field", typesys.TypeString), named("order", typesys.TypeString),
	)))

	registerMember("Row", property("RowNumber", typesys.TypeInteger))
	registerMember("Row", method("GetRecord", typesys.NewBuiltinObject("Record"), ov(
		validate.UnionParameter{Name: "record", Options: []*typesys.TypeInfo{
			typesys.NewReference(typesys.RefRecord), typesys.TypeInteger,
		}},
	)))
}

func registerFileMembers() {
	registerMember("File", property("IsOpen", typesys.TypeBoolean))
	registerMember("File", property("CurrentRecord", typesys.TypeString))
	registerMember("File", method("ReadLine", typesys.TypeBoolean, ov(
		out("line", typesys.TypeString),
	)))
	registerMember("File", method("WriteLine", nil, ov(named("line", typesys.TypeString))))
	registerMember("File", method("Close", nil, ov()))
}
