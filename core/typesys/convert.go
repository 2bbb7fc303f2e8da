package typesys

// IsAssignableFrom reports whether a value of type source can be assigned to
// a target of type t under PeopleCode's implicit conversion rules.
//
// The rules encoded here are deliberately permissive where the runtime is:
// integer and number convert both ways, Record and Scroll are
// interchangeable, Any absorbs everything, and Unknown is never rejected —
// the front end only flags "known and wrong", never "don't know".
func (t *TypeInfo) IsAssignableFrom(source *TypeInfo) bool {
	if t == nil || source == nil {
		return false
	}

	// Absorbing targets and sources first.
	switch {
	case t.Kind == KindAny, t.Kind == KindUnknown:
		return true
	case source.Kind == KindAny, source.Kind == KindUnknown:
		return true
	case t.Kind == KindInvalid, source.Kind == KindInvalid:
		return false
	case t.Kind == KindVoid, source.Kind == KindVoid:
		return false
	}

	// A union source fits when every alternative fits would be the sound
	// rule; PeopleCode call sites only need one alternative to fit.
	if source.Kind == KindUnionReturn {
		for _, opt := range source.Options {
			if t.IsAssignableFrom(opt) {
				return true
			}
		}
		return false
	}
	if t.Kind == KindUnionReturn {
		for _, opt := range t.Options {
			if opt.IsAssignableFrom(source) {
				return true
			}
		}
		return false
	}

	// Unresolved polymorphic types behave like Unknown.
	if t.Kind == KindPolymorphic || source.Kind == KindPolymorphic {
		return true
	}

	switch t.Kind {
	case KindPrimitive:
		if source.Kind != KindPrimitive {
			return false
		}
		if t.Prim == source.Prim {
			return true
		}
		// integer ⇄ number convert bidirectionally; the date/time family
		// does not convert at all.
		return t.IsNumeric() && source.IsNumeric()

	case KindObject:
		return source.IsObjectLike()

	case KindBuiltinObject:
		if source.Kind != KindBuiltinObject {
			return false
		}
		if t.Equal(source) {
			return true
		}
		// Record and Scroll compare equal in both directions, a quirk the
		// component buffer API depends on.
		return isRecordScrollPair(t.Builtin, source.Builtin)

	case KindAppClass:
		// Exact path identity; inheritance-aware widening needs metadata and
		// lives in the inference layer.
		return source.Kind == KindAppClass && t.Equal(source)

	case KindArray:
		if source.Kind != KindArray {
			return false
		}
		if t.Dims != source.Dims {
			return false
		}
		if t.Elem == nil || source.Elem == nil {
			return true
		}
		return t.Elem.IsAssignableFrom(source.Elem)

	case KindReference:
		return source.Kind == KindReference && t.Ref == source.Ref

	default:
		return false
	}
}

func isRecordScrollPair(a, b BuiltinKind) bool {
	return (a == BuiltinRecord && b == BuiltinScroll) || (a == BuiltinScroll && b == BuiltinRecord)
}

// GetCommonType returns the join of t and other: the narrowest type a value
// of either could flow into. Types with no shared representation join to Any
// (date and time have no common type, so the join widens all the way).
func (t *TypeInfo) GetCommonType(other *TypeInfo) *TypeInfo {
	if t == nil || other == nil {
		return TypeUnknown
	}

	// Invalid poisons, Unknown propagates, Any absorbs.
	if t.Kind == KindInvalid {
		return t
	}
	if other.Kind == KindInvalid {
		return other
	}
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return TypeUnknown
	}
	if t.Kind == KindAny || other.Kind == KindAny {
		return TypeAny
	}

	if t.Equal(other) {
		return t
	}
	if t.IsNumeric() && other.IsNumeric() {
		return TypeNumber
	}
	if t.IsAssignableFrom(other) {
		return t
	}
	if other.IsAssignableFrom(t) {
		return other
	}
	if t.IsObjectLike() && other.IsObjectLike() {
		return TypeObject
	}
	return TypeAny
}
