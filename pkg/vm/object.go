package vm

// Object is a heap-allocated instance: its class name and a field map.
type Object struct {
	ClassName string
	Fields    map[string]Value
}
