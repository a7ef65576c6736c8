package vm

import "fmt"

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindLong
	KindFloat
	KindDouble
	KindRef
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindRef:
		return "reference"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a single operand stack or local variable slot. Long and
// Double occupy one slot here, unlike the two slots the JVM spec
// mandates; the descriptor parser counts them the same way.
type Value struct {
	Kind   ValueKind
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Ref    int  // heap handle, meaningful when Kind == KindRef && !IsNull
	IsNull bool // null reference marker for KindRef
}

// IntValue creates an int Value.
func IntValue(v int32) Value {
	return Value{Kind: KindInt, Int: v}
}

// LongValue creates a long Value.
func LongValue(v int64) Value {
	return Value{Kind: KindLong, Long: v}
}

// FloatValue creates a float Value.
func FloatValue(v float32) Value {
	return Value{Kind: KindFloat, Float: v}
}

// DoubleValue creates a double Value.
func DoubleValue(v float64) Value {
	return Value{Kind: KindDouble, Double: v}
}

// RefValue creates a reference Value holding a heap handle.
func RefValue(handle int) Value {
	return Value{Kind: KindRef, Ref: handle}
}

// NullValue creates the null reference.
func NullValue() Value {
	return Value{Kind: KindRef, IsNull: true}
}

// String renders the value for diagnostics and for the run CLI's
// return-value report.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("int: %d", v.Int)
	case KindLong:
		return fmt.Sprintf("long: %d", v.Long)
	case KindFloat:
		return fmt.Sprintf("float: %v", v.Float)
	case KindDouble:
		return fmt.Sprintf("double: %v", v.Double)
	case KindRef:
		if v.IsNull {
			return "reference: null"
		}
		return fmt.Sprintf("reference: %d", v.Ref)
	}
	return "unknown"
}
