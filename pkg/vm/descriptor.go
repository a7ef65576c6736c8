package vm

import (
	"fmt"
	"strings"
)

// CountParams counts the parameters of a method descriptor
// "(params)return". Every base type counts one, including J and D:
// category-2 values occupy a single slot in this engine, so argument
// transfer and parameter counting agree.
func CountParams(descriptor string) (int, error) {
	start := strings.Index(descriptor, "(")
	end := strings.Index(descriptor, ")")
	if start == -1 || end == -1 || end < start {
		return 0, fmt.Errorf("invalid method descriptor: %q", descriptor)
	}

	params := descriptor[start+1 : end]
	count := 0
	i := 0
	for i < len(params) {
		switch params[i] {
		case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
			count++
			i++
		case 'L':
			count++
			for i < len(params) && params[i] != ';' {
				i++
			}
			if i >= len(params) {
				return 0, fmt.Errorf("invalid method descriptor: unterminated class type in %q", descriptor)
			}
			i++ // skip ';'
		case '[':
			for i < len(params) && params[i] == '[' {
				i++
			}
			if i >= len(params) {
				return 0, fmt.Errorf("invalid method descriptor: dangling '[' in %q", descriptor)
			}
			if params[i] == 'L' {
				for i < len(params) && params[i] != ';' {
					i++
				}
				if i >= len(params) {
					return 0, fmt.Errorf("invalid method descriptor: unterminated class type in %q", descriptor)
				}
				i++
			} else {
				i++
			}
			count++
		default:
			return 0, fmt.Errorf("invalid type descriptor char %q in %q", params[i], descriptor)
		}
	}
	return count, nil
}

// IsVoidReturn reports whether the descriptor has a void return type.
func IsVoidReturn(descriptor string) bool {
	return strings.HasSuffix(descriptor, ")V")
}

// DefaultValueForDescriptor returns the zero value for a field
// descriptor: null for reference and array types, the typed zero
// otherwise.
func DefaultValueForDescriptor(descriptor string) Value {
	if len(descriptor) == 0 {
		return NullValue()
	}
	switch descriptor[0] {
	case 'L', '[':
		return NullValue()
	case 'J':
		return LongValue(0)
	case 'F':
		return FloatValue(0)
	case 'D':
		return DoubleValue(0)
	default:
		return IntValue(0)
	}
}
