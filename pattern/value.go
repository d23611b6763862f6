package pattern

import "fmt"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNumber ValueKind = iota
	KindString
	KindBool
	KindList
	KindMap
)

// Value is a tagged union for event payloads: numbers, strings, bools,
// lists, and string-keyed maps (the last used for chords, voicings, and
// merged parameter bundles like {s: "bd", n: 3, gain: 0.8}).
type Value struct {
	kind ValueKind
	num  Rational
	str  string
	bl   bool
	list []Value
	m    map[string]Value
}

func NumberValue(r Rational) Value { return Value{kind: KindNumber, num: r} }
func IntValue(n int64) Value       { return NumberValue(FromInt(n)) }
func StringValue(s string) Value   { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value       { return Value{kind: KindBool, bl: b} }
func ListValue(vs []Value) Value   { return Value{kind: KindList, list: vs} }

func MapValue(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsString() bool  { return v.kind == KindString }
func (v Value) IsBool() bool    { return v.kind == KindBool }
func (v Value) IsList() bool    { return v.kind == KindList }
func (v Value) IsMap() bool     { return v.kind == KindMap }

func (v Value) Number() (Rational, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return Zero, false
}

func (v Value) Str() (string, bool) {
	if v.kind == KindString {
		return v.str, true
	}
	return "", false
}

func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.bl, true
	}
	return false, false
}

// Truthy reports whether the value should be treated as "true" by
// struct/mask: bools by value, numbers by non-zero, strings by being
// non-empty and not "f"/"false"/"0".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.bl
	case KindNumber:
		return v.num.num != 0
	case KindString:
		switch v.str {
		case "", "f", "false", "0":
			return false
		default:
			return true
		}
	default:
		return true
	}
}

func (v Value) List() ([]Value, bool) {
	if v.kind == KindList {
		return v.list, true
	}
	return nil, false
}

func (v Value) Map() (map[string]Value, bool) {
	if v.kind == KindMap {
		return v.m, true
	}
	return nil, false
}

// AsMap coerces a scalar to a single-entry {"value": v} map, matching the
// "scalars promote to {value: x}" rule in §3. Maps are returned as-is.
func (v Value) AsMap() map[string]Value {
	if v.kind == KindMap {
		return v.m
	}
	return map[string]Value{"value": v}
}

// Merge implements v ⊔ o: entries from v overridden by entries from o,
// both coerced to maps first. The result is always a KindMap value.
func (v Value) Merge(o Value) Value {
	base := v.AsMap()
	over := o.AsMap()
	out := make(map[string]Value, len(base)+len(over))
	for k, val := range base {
		out[k] = val
	}
	for k, val := range over {
		out[k] = val
	}
	return MapValue(out)
}

// BinaryNumeric applies op to two numeric values, broadcasts a scalar
// across every entry of a Map value, or applies op across the intersecting
// keys of two Map values. Non-numeric leaf pairs are reported via ok=false
// so the caller can raise a TypeError diagnostic and drop just the
// offending Hap, per §7.
func (v Value) BinaryNumeric(o Value, op func(a, b Rational) Rational) (Value, bool) {
	if v.kind == KindNumber && o.kind == KindNumber {
		return NumberValue(op(v.num, o.num)), true
	}
	if (v.kind == KindMap) != (o.kind == KindMap) {
		mapSide := v
		if o.kind == KindMap {
			mapSide = o
		}
		out := make(map[string]Value, len(mapSide.m))
		for k, e := range mapSide.m {
			l, r := e, o
			if o.kind == KindMap {
				l, r = v, e
			}
			merged, ok := l.BinaryNumeric(r, op)
			if !ok {
				return Value{}, false
			}
			out[k] = merged
		}
		return MapValue(out), true
	}
	if v.kind == KindMap && o.kind == KindMap {
		lm := v.AsMap()
		rm := o.AsMap()
		out := make(map[string]Value, len(lm))
		for k, lv := range lm {
			if rv, present := rm[k]; present {
				merged, ok := lv.BinaryNumeric(rv, op)
				if !ok {
					return Value{}, false
				}
				out[k] = merged
			} else {
				out[k] = lv
			}
		}
		for k, rv := range rm {
			if _, present := lm[k]; !present {
				out[k] = rv
			}
		}
		return MapValue(out), true
	}
	return Value{}, false
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	case KindBool:
		if v.bl {
			return "true"
		}
		return "false"
	case KindList:
		return fmt.Sprintf("%v", v.list)
	case KindMap:
		return fmt.Sprintf("%v", v.m)
	default:
		return "<invalid>"
	}
}
