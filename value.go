package treepatch

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind defines all of the shapes a value in a tree can take
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindString
	KindNumber
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	}
	return "unknown"
}

// KindOf classifies a value
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return KindNumber
	case map[string]interface{}:
		return KindMapping
	case []interface{}:
		return KindSequence
	}
	return KindUnknown
}

// isFloat reports whether a number is floating point typed. json.Number
// counts as floating point when its text has a fraction or exponent
func isFloat(v interface{}) bool {
	switch x := v.(type) {
	case float32, float64:
		return true
	case json.Number:
		return strings.ContainsAny(string(x), ".eE")
	}
	return false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	i, ok := toInt64(v)
	return float64(i), ok
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		i, err := strconv.ParseInt(string(x), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// numbersEqual compares as 64-bit floats if either side is floating point,
// as integers otherwise. 5 and 5.0 are equal, so are two NaNs
func numbersEqual(a, b interface{}) bool {
	if isFloat(a) || isFloat(b) {
		fa, aok := toFloat64(a)
		fb, bok := toFloat64(b)
		if !aok || !bok {
			return false
		}
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}
	ia, aok := toInt64(a)
	ib, bok := toInt64(b)
	if aok && bok {
		return ia == ib
	}
	// out of int64 range, compare exactly
	ba, aok := toBigInt(a)
	bb, bok := toBigInt(b)
	return aok && bok && ba.Cmp(bb) == 0
}

func toBigInt(v interface{}) (*big.Int, bool) {
	switch x := v.(type) {
	case uint:
		return new(big.Int).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Int).SetUint64(x), true
	case json.Number:
		return new(big.Int).SetString(string(x), 10)
	}
	i, ok := toInt64(v)
	if !ok {
		return nil, false
	}
	return big.NewInt(i), true
}

// Equal reports whether Diff would find no difference between a & b
func Equal(a, b interface{}) bool {
	d, err := Diff(a, b)
	return err == nil && d == nil
}

// Clone returns a deep copy of a value tree. Scalars are returned as-is,
// mappings and sequences are copied recursively
func Clone(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return CloneMap(x)
	case []interface{}:
		if x == nil {
			return x
		}
		cp := make([]interface{}, len(x))
		for i, el := range x {
			cp[i] = Clone(el)
		}
		return cp
	}
	return v
}

// CloneMap returns a deep copy of a mapping
func CloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	cp := make(map[string]interface{}, len(m))
	for k, v := range m {
		cp[k] = Clone(v)
	}
	return cp
}

// countNodes counts a value and all of its descendants
func countNodes(v interface{}) int {
	n := 1
	switch x := v.(type) {
	case map[string]interface{}:
		for _, ch := range x {
			n += countNodes(ch)
		}
	case []interface{}:
		for _, ch := range x {
			n += countNodes(ch)
		}
	}
	return n
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// AppendPointer appends a reference token to an RFC 6901 JSON pointer,
// escaping "~" and "/"
// https://tools.ietf.org/html/rfc6901
func AppendPointer(ptr, token string) string {
	return ptr + "/" + pointerEscaper.Replace(token)
}

func appendIndex(ptr string, i int) string {
	return ptr + "/" + strconv.Itoa(i)
}
