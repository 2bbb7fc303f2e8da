package validate

import "github.com/pcodekit/pcodekit/core/typesys"

// NextArgumentTypes answers the call-tip query: given the arguments typed so
// far, which types are acceptable at the next position. It runs the same
// structural walk as the matcher but explores every branch, projecting the
// first set of whatever parameter comes after the consumed prefix —
// including the epsilon closure over optional groups and zero-minimum
// variadics.
func NextArgumentTypes(overloads []Overload, prefix []Argument) []*typesys.TypeInfo {
	c := &nextCollector{prefix: prefix, seen: make(map[string]bool)}
	for _, ov := range overloads {
		c.walk(ov.Parameters, 0)
	}
	return c.out
}

type nextCollector struct {
	prefix []Argument
	seen   map[string]bool
	out    []*typesys.TypeInfo
}

func (c *nextCollector) add(t *typesys.TypeInfo) {
	if t == nil || c.seen[t.Key()] {
		return
	}
	c.seen[t.Key()] = true
	c.out = append(c.out, t)
}

// walk consumes the prefix against the parameter sequence, branching on
// every viable path; once the prefix is exhausted it emits the first set.
func (c *nextCollector) walk(params []Parameter, pos int) {
	if pos == len(c.prefix) {
		c.firstSet(params)
		return
	}
	if len(params) == 0 {
		return
	}
	arg := c.prefix[pos]

	switch p := params[0].(type) {
	case SingleParameter:
		if accepts(p.Type, arg.Type) {
			c.walk(params[1:], pos+1)
		}

	case UnionParameter:
		for _, opt := range p.Options {
			if accepts(opt, arg.Type) {
				c.walk(params[1:], pos+1)
				break
			}
		}

	case ParameterGroup:
		c.walk(expand(p.Items, params[1:]), pos)
		if p.Optional {
			c.walk(params[1:], pos)
		}

	case VariableParameter:
		if p.Min == 0 {
			c.walk(params[1:], pos)
		}
		rest := []Parameter{p.Item}
		if p.Max != 1 { // Max of 1 leaves no remainder; 0 stays unbounded
			rest = append(rest, shrink(p))
		}
		c.walk(expand(rest, params[1:]), pos)

	case ReferenceParameter:
		if acceptsReference(p.Categories, arg.Type) {
			c.walk(params[1:], pos+1)
		}
	}
}

// firstSet emits the types acceptable as the very next argument, following
// epsilon transitions through optional groups and zero-minimum variadics.
func (c *nextCollector) firstSet(params []Parameter) {
	if len(params) == 0 {
		return
	}
	switch p := params[0].(type) {
	case SingleParameter:
		c.add(p.Type)

	case UnionParameter:
		for _, opt := range p.Options {
			c.add(opt)
		}

	case ParameterGroup:
		c.firstSet(expand(p.Items, params[1:]))
		if p.Optional {
			c.firstSet(params[1:])
		}

	case VariableParameter:
		c.firstSet(expand([]Parameter{p.Item}, nil))
		if p.Min == 0 {
			c.firstSet(params[1:])
		}

	case ReferenceParameter:
		for _, t := range referenceTypes(p.Categories) {
			c.add(t)
		}
	}
}

// shrink produces the variadic remainder after one repetition is consumed.
func shrink(p VariableParameter) VariableParameter {
	next := VariableParameter{Item: p.Item, Min: p.Min, Max: p.Max}
	if next.Min > 0 {
		next.Min--
	}
	if next.Max > 0 {
		next.Max--
	}
	return next
}

func expand(head []Parameter, tail []Parameter) []Parameter {
	out := make([]Parameter, 0, len(head)+len(tail))
	out = append(out, head...)
	out = append(out, tail...)
	return out
}
