package protocol

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Field is one labelled field of a protocol value.
type Field struct {
	Name  string
	Value any
}

// Value is implemented by every payload type of the protocol. Fields lists
// the fields in declaration order; Equal, Hash and Format are derived from it.
type Value interface {
	Fields() []Field
}

const hashPrime = 31

// Equal reports whether a and b are structurally equal: same dynamic type and
// pairwise equal fields. An absent field only equals another absent field.
func Equal(a, b Value) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if samePointer(a, b) {
		return true
	}
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name || !equalField(fa[i].Value, fb[i].Value) {
			return false
		}
	}
	return true
}

// Hash accumulates the hashes of v's fields with an odd multiplier, starting
// from 1. Equal values have equal hashes.
func Hash(v Value) int32 {
	if isNil(v) {
		return 0
	}
	result := int32(1)
	for _, f := range v.Fields() {
		result = hashPrime*result + hashField(f.Value)
	}
	return result
}

// Format renders v as "Name [field = value, ...]". The output is stable and
// meant for logs; it is not a wire format.
func Format(v Value) string {
	var b strings.Builder
	formatValue(&b, v)
	return b.String()
}

func formatValue(b *strings.Builder, v Value) {
	if isNil(v) {
		b.WriteString("null")
		return
	}
	b.WriteString(typeName(v))
	b.WriteString(" [")
	for i, f := range v.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(" = ")
		formatField(b, f.Value)
	}
	b.WriteByte(']')
}

func formatField(b *strings.Builder, x any) {
	if isNil(x) {
		b.WriteString("null")
		return
	}
	if v, ok := x.(Value); ok {
		formatValue(b, v)
		return
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		formatField(b, rv.Elem().Interface())
	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			formatField(b, rv.Index(i).Interface())
		}
		b.WriteByte(']')
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	default:
		b.WriteString(rv.String())
	}
}

func equalField(x, y any) bool {
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	if vx, ok := x.(Value); ok {
		vy, ok := y.(Value)
		return ok && Equal(vx, vy)
	}
	rx, ry := reflect.ValueOf(x), reflect.ValueOf(y)
	if rx.Type() != ry.Type() {
		return false
	}
	switch rx.Kind() {
	case reflect.Pointer, reflect.Interface:
		return equalField(rx.Elem().Interface(), ry.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rx.Len() != ry.Len() {
			return false
		}
		for i := 0; i < rx.Len(); i++ {
			if !equalField(rx.Index(i).Interface(), ry.Index(i).Interface()) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(x, y)
	}
}

func hashField(x any) int32 {
	if isNil(x) {
		return 0
	}
	if v, ok := x.(Value); ok {
		return Hash(v)
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return hashField(rv.Elem().Interface())
	case reflect.String:
		return hashString(rv.String())
	case reflect.Slice, reflect.Array:
		h := int32(1)
		for i := 0; i < rv.Len(); i++ {
			h = hashPrime*h + hashField(rv.Index(i).Interface())
		}
		return h
	case reflect.Bool:
		if rv.Bool() {
			return 1231
		}
		return 1237
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return int32(n ^ int64(uint64(n)>>32))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := rv.Uint()
		return int32(n ^ n>>32)
	default:
		return hashString(fmt.Sprint(x))
	}
}

func hashString(s string) int32 {
	var h int32
	for _, r := range s {
		h = hashPrime*h + int32(r)
	}
	return h
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func samePointer(a, b Value) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	return ra.Kind() == reflect.Pointer && rb.Kind() == reflect.Pointer && ra.Pointer() == rb.Pointer()
}

func typeName(v Value) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
