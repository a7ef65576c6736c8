package vm

import (
	"fmt"

	"github.com/classbyte/gvm/pkg/classfile"
)

// ClassState tracks the class lifecycle. The core only ever reaches
// StateLoaded; the later states are reserved for a class-initializer
// pass that would run <clinit>.
type ClassState int

const (
	StateLoaded ClassState = iota
	StateLinked
	StateInitializing
	StateInitialized
)

func (s ClassState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateLinked:
		return "linked"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Metaspace owns all loaded class metadata, keyed by internal class
// name. It is the sole mutator of the per-class runtime constant pools.
type Metaspace struct {
	classes map[string]*ClassMetadata
}

// ClassMetadata is the runtime representation of a loaded class.
type ClassMetadata struct {
	Name       string
	SuperClass string // empty only for the root type
	Interfaces []string

	AccessFlags uint16

	// ConstantPool is the raw pool captured from the class file at
	// load time (1-indexed, nil slot 0, nil after wide entries).
	ConstantPool []classfile.ConstantPoolEntry

	// RuntimePool caches resolutions of symbolic references by
	// constant pool index.
	RuntimePool *RuntimeConstantPool

	// Methods and Fields are keyed by "name:descriptor".
	Methods map[string]*MethodMetadata
	Fields  map[string]*FieldMetadata

	// StaticFields holds static field values by field name.
	StaticFields map[string]Value

	State ClassState
}

// MethodMetadata describes one method of a loaded class.
type MethodMetadata struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
	MaxStack    int
	MaxLocals   int
	Code        []byte
	IsStatic    bool
	IsNative    bool
	IsAbstract  bool
}

// FieldMetadata describes one field of a loaded class.
type FieldMetadata struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
	IsStatic    bool
}

// RuntimeConstantPool memoizes resolved symbolic references by constant
// pool index. Classes are never unloaded, so there is no invalidation.
type RuntimeConstantPool struct {
	ResolvedClasses map[uint16]string
	ResolvedMethods map[uint16]ResolvedMethodRef
	ResolvedFields  map[uint16]ResolvedFieldRef
}

// ResolvedMethodRef is the direct form of a Methodref or
// InterfaceMethodref constant.
type ResolvedMethodRef struct {
	ClassName  string
	MethodName string
	Descriptor string
}

// ResolvedFieldRef is the direct form of a Fieldref constant.
type ResolvedFieldRef struct {
	ClassName  string
	FieldName  string
	Descriptor string
}

// NewRuntimeConstantPool creates an empty resolution cache.
func NewRuntimeConstantPool() *RuntimeConstantPool {
	return &RuntimeConstantPool{
		ResolvedClasses: make(map[uint16]string),
		ResolvedMethods: make(map[uint16]ResolvedMethodRef),
		ResolvedFields:  make(map[uint16]ResolvedFieldRef),
	}
}

// NewMetaspace creates an empty metaspace.
func NewMetaspace() *Metaspace {
	return &Metaspace{classes: make(map[string]*ClassMetadata)}
}

// LoadClass installs a parsed class file. Loading a name that is
// already present is a no-op.
func (ms *Metaspace) LoadClass(cf *classfile.ClassFile) error {
	className, err := cf.ClassName()
	if err != nil {
		return fmt.Errorf("resolving class name: %w", err)
	}

	if _, ok := ms.classes[className]; ok {
		return nil
	}

	superClass := ""
	if cf.SuperClass != 0 {
		superClass, err = cf.SuperClassName()
		if err != nil {
			return fmt.Errorf("resolving super class of %s: %w", className, err)
		}
	}

	interfaces := make([]string, 0, len(cf.Interfaces))
	for _, ifIdx := range cf.Interfaces {
		name, err := classfile.GetClassName(cf.ConstantPool, ifIdx)
		if err != nil {
			return fmt.Errorf("resolving interface of %s: %w", className, err)
		}
		interfaces = append(interfaces, name)
	}

	methods, err := buildMethodTable(className, cf)
	if err != nil {
		return err
	}
	fields := buildFieldTable(cf)

	// The raw pool is captured by value so later resolution never
	// depends on the ClassFile staying alive.
	pool := make([]classfile.ConstantPoolEntry, len(cf.ConstantPool))
	copy(pool, cf.ConstantPool)

	ms.classes[className] = &ClassMetadata{
		Name:         className,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		AccessFlags:  cf.AccessFlags,
		ConstantPool: pool,
		RuntimePool:  NewRuntimeConstantPool(),
		Methods:      methods,
		Fields:       fields,
		StaticFields: make(map[string]Value),
		State:        StateLoaded,
	}
	return nil
}

func buildMethodTable(className string, cf *classfile.ClassFile) (map[string]*MethodMetadata, error) {
	methods := make(map[string]*MethodMetadata, len(cf.Methods))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		isStatic := m.AccessFlags&classfile.AccStatic != 0
		isNative := m.AccessFlags&classfile.AccNative != 0
		isAbstract := m.AccessFlags&classfile.AccAbstract != 0

		meta := &MethodMetadata{
			Name:        m.Name,
			Descriptor:  m.Descriptor,
			AccessFlags: m.AccessFlags,
			IsStatic:    isStatic,
			IsNative:    isNative,
			IsAbstract:  isAbstract,
		}

		// Native and abstract methods carry no bytecode; anything
		// else must have come with a Code attribute.
		if !isNative && !isAbstract {
			if m.Code == nil {
				return nil, fmt.Errorf("method %s.%s:%s has no Code attribute", className, m.Name, m.Descriptor)
			}
			meta.MaxStack = int(m.Code.MaxStack)
			meta.MaxLocals = int(m.Code.MaxLocals)
			meta.Code = m.Code.Code
		}

		methods[m.Name+":"+m.Descriptor] = meta
	}
	return methods, nil
}

func buildFieldTable(cf *classfile.ClassFile) map[string]*FieldMetadata {
	fields := make(map[string]*FieldMetadata, len(cf.Fields))
	for i := range cf.Fields {
		f := &cf.Fields[i]
		fields[f.Name+":"+f.Descriptor] = &FieldMetadata{
			Name:        f.Name,
			Descriptor:  f.Descriptor,
			AccessFlags: f.AccessFlags,
			IsStatic:    f.AccessFlags&classfile.AccStatic != 0,
		}
	}
	return fields
}

// GetClass returns the metadata for a loaded class. The returned
// pointer is shared: resolution writes into its runtime pool.
func (ms *Metaspace) GetClass(className string) (*ClassMetadata, error) {
	meta, ok := ms.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotLoaded, className)
	}
	return meta, nil
}

// IsClassLoaded reports whether the class is present.
func (ms *Metaspace) IsClassLoaded(className string) bool {
	_, ok := ms.classes[className]
	return ok
}

// LoadedClasses returns the names of all loaded classes.
func (ms *Metaspace) LoadedClasses() []string {
	names := make([]string, 0, len(ms.classes))
	for name := range ms.classes {
		names = append(names, name)
	}
	return names
}

// FindMethod looks up a method by name and descriptor.
func (c *ClassMetadata) FindMethod(name, descriptor string) (*MethodMetadata, error) {
	m, ok := c.Methods[name+":"+descriptor]
	if !ok {
		return nil, fmt.Errorf("%w: method %s.%s:%s", ErrMemberNotFound, c.Name, name, descriptor)
	}
	return m, nil
}

// FindField looks up a field by name and descriptor.
func (c *ClassMetadata) FindField(name, descriptor string) (*FieldMetadata, error) {
	f, ok := c.Fields[name+":"+descriptor]
	if !ok {
		return nil, fmt.Errorf("%w: field %s.%s:%s", ErrMemberNotFound, c.Name, name, descriptor)
	}
	return f, nil
}

// cpEntry fetches a constant pool entry, rejecting index 0, indices
// past the pool, and the empty sentinel slots after wide entries.
func (c *ClassMetadata) cpEntry(index uint16) (classfile.ConstantPoolEntry, error) {
	if index == 0 || int(index) >= len(c.ConstantPool) {
		return nil, fmt.Errorf("%w: %d (pool size %d)", ErrBadConstantPoolIndex, index, len(c.ConstantPool))
	}
	entry := c.ConstantPool[index]
	if entry == nil {
		return nil, fmt.Errorf("%w: %d is empty", ErrBadConstantPoolIndex, index)
	}
	return entry, nil
}

// resolveNameAndType dereferences a NameAndType entry into its two
// Utf8 children.
func (c *ClassMetadata) resolveNameAndType(index uint16) (name, descriptor string, err error) {
	entry, err := c.cpEntry(index)
	if err != nil {
		return "", "", err
	}
	nat, ok := entry.(*classfile.ConstantNameAndType)
	if !ok {
		return "", "", fmt.Errorf("%w: expected NameAndType at %d, got tag %d", ErrWrongEntryKind, index, entry.Tag())
	}
	name, err = c.utf8At(nat.NameIndex)
	if err != nil {
		return "", "", err
	}
	descriptor, err = c.utf8At(nat.DescriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

func (c *ClassMetadata) utf8At(index uint16) (string, error) {
	entry, err := c.cpEntry(index)
	if err != nil {
		return "", err
	}
	utf8, ok := entry.(*classfile.ConstantUtf8)
	if !ok {
		return "", fmt.Errorf("%w: expected Utf8 at %d, got tag %d", ErrWrongEntryKind, index, entry.Tag())
	}
	return utf8.Value, nil
}

// ResolveClassRef resolves a Class constant to its internal name and
// memoizes the result. Resolution is idempotent.
func (c *ClassMetadata) ResolveClassRef(index uint16) (string, error) {
	if name, ok := c.RuntimePool.ResolvedClasses[index]; ok {
		return name, nil
	}

	entry, err := c.cpEntry(index)
	if err != nil {
		return "", err
	}
	class, ok := entry.(*classfile.ConstantClass)
	if !ok {
		return "", fmt.Errorf("%w: expected Class at %d, got tag %d", ErrWrongEntryKind, index, entry.Tag())
	}
	name, err := c.utf8At(class.NameIndex)
	if err != nil {
		return "", err
	}

	c.RuntimePool.ResolvedClasses[index] = name
	return name, nil
}

// ResolveMethodRef resolves a Methodref or InterfaceMethodref constant
// to a (class, name, descriptor) triple and memoizes it.
func (c *ClassMetadata) ResolveMethodRef(index uint16) (ResolvedMethodRef, error) {
	if resolved, ok := c.RuntimePool.ResolvedMethods[index]; ok {
		return resolved, nil
	}

	entry, err := c.cpEntry(index)
	if err != nil {
		return ResolvedMethodRef{}, err
	}

	var classIndex, natIndex uint16
	switch ref := entry.(type) {
	case *classfile.ConstantMethodref:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	case *classfile.ConstantInterfaceMethodref:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	default:
		return ResolvedMethodRef{}, fmt.Errorf("%w: expected Methodref or InterfaceMethodref at %d, got tag %d",
			ErrWrongEntryKind, index, entry.Tag())
	}

	className, err := c.ResolveClassRef(classIndex)
	if err != nil {
		return ResolvedMethodRef{}, err
	}
	methodName, descriptor, err := c.resolveNameAndType(natIndex)
	if err != nil {
		return ResolvedMethodRef{}, err
	}

	resolved := ResolvedMethodRef{
		ClassName:  className,
		MethodName: methodName,
		Descriptor: descriptor,
	}
	c.RuntimePool.ResolvedMethods[index] = resolved
	return resolved, nil
}

// ResolveFieldRef resolves a Fieldref constant to a (class, field,
// descriptor) triple and memoizes it.
func (c *ClassMetadata) ResolveFieldRef(index uint16) (ResolvedFieldRef, error) {
	if resolved, ok := c.RuntimePool.ResolvedFields[index]; ok {
		return resolved, nil
	}

	entry, err := c.cpEntry(index)
	if err != nil {
		return ResolvedFieldRef{}, err
	}
	ref, ok := entry.(*classfile.ConstantFieldref)
	if !ok {
		return ResolvedFieldRef{}, fmt.Errorf("%w: expected Fieldref at %d, got tag %d", ErrWrongEntryKind, index, entry.Tag())
	}

	className, err := c.ResolveClassRef(ref.ClassIndex)
	if err != nil {
		return ResolvedFieldRef{}, err
	}
	fieldName, descriptor, err := c.resolveNameAndType(ref.NameAndTypeIndex)
	if err != nil {
		return ResolvedFieldRef{}, err
	}

	resolved := ResolvedFieldRef{
		ClassName:  className,
		FieldName:  fieldName,
		Descriptor: descriptor,
	}
	c.RuntimePool.ResolvedFields[index] = resolved
	return resolved, nil
}
