package vm

import "fmt"

// Heap is a slab-indexed object store. Allocation returns a stable
// integer handle; freed slots go onto a free list and are reused by the
// next allocation. There is no automatic reclamation.
type Heap struct {
	objects  []*Object
	freeList []int
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

// Allocate constructs a fresh object of the given class with an empty
// field map and returns its handle. A free-list slot is preferred over
// growing the slab.
func (h *Heap) Allocate(className string) int {
	obj := &Object{ClassName: className, Fields: make(map[string]Value)}

	if n := len(h.freeList); n > 0 {
		index := h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		h.objects[index] = obj
		return index
	}

	h.objects = append(h.objects, obj)
	return len(h.objects) - 1
}

// Get returns the object at the given handle.
func (h *Heap) Get(index int) (*Object, error) {
	if index < 0 || index >= len(h.objects) || h.objects[index] == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadReference, index)
	}
	return h.objects[index], nil
}

// SetField overwrites or inserts a field on the object at index.
func (h *Heap) SetField(index int, name string, value Value) error {
	obj, err := h.Get(index)
	if err != nil {
		return err
	}
	obj.Fields[name] = value
	return nil
}

// GetField returns the named field of the object at index. Reading a
// field that was never written is ErrFieldUnset.
func (h *Heap) GetField(index int, name string) (Value, error) {
	obj, err := h.Get(index)
	if err != nil {
		return Value{}, err
	}
	v, ok := obj.Fields[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrFieldUnset, obj.ClassName, name)
	}
	return v, nil
}

// Free releases the object at index and recycles the slot. Any later
// access through the same handle fails until the slot is reallocated.
func (h *Heap) Free(index int) error {
	if index < 0 || index >= len(h.objects) || h.objects[index] == nil {
		return fmt.Errorf("%w: %d", ErrBadReference, index)
	}
	h.objects[index] = nil
	h.freeList = append(h.freeList, index)
	return nil
}

// ObjectCount returns the number of live objects.
func (h *Heap) ObjectCount() int {
	count := 0
	for _, obj := range h.objects {
		if obj != nil {
			count++
		}
	}
	return count
}

// slotCount returns the slab size including freed slots (used by the
// collector's sweep).
func (h *Heap) slotCount() int {
	return len(h.objects)
}

// isLive reports whether the slot currently holds an object.
func (h *Heap) isLive(index int) bool {
	return index >= 0 && index < len(h.objects) && h.objects[index] != nil
}
