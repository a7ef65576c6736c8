package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// systemClassPrefix marks classes handled as intrinsics instead of
// loaded bytecode: invocations on them are skipped, and
// java/lang/System.out resolves to the built-in print stream.
const systemClassPrefix = "java/"

// Interpreter owns the heap, the single execution thread, and a
// reference to the metaspace, and drives the fetch/decode/execute loop.
type Interpreter struct {
	Heap      *Heap
	Thread    *Thread
	Metaspace *Metaspace

	// Stdout receives println output. Defaults to os.Stdout.
	Stdout io.Writer

	logger *zap.Logger

	// printStream caches the heap handle backing
	// java/lang/System.out, -1 until first use.
	printStream int
}

// NewInterpreter creates an interpreter over the given metaspace with a
// fresh heap and thread.
func NewInterpreter(ms *Metaspace) *Interpreter {
	return &Interpreter{
		Heap:        NewHeap(),
		Thread:      NewThread(),
		Metaspace:   ms,
		Stdout:      os.Stdout,
		logger:      zap.NewNop(),
		printStream: -1,
	}
}

// SetLogger installs a logger for execution tracing. The default is a
// no-op logger.
func (in *Interpreter) SetLogger(l *zap.Logger) {
	if l != nil {
		in.logger = l
	}
}

// Execute runs the given bytecode as the bottom frame of the thread and
// returns the top-level return value, or nil for void. Any error
// unwinds the entire invocation; no handler dispatch is attempted.
func (in *Interpreter) Execute(className string, code []byte, maxLocals, maxStack int) (*Value, error) {
	in.logger.Debug("executing method",
		zap.String("class", className),
		zap.Int("max_locals", maxLocals),
		zap.Int("max_stack", maxStack),
		zap.Int("code_length", len(code)))

	frame := NewFrame(maxLocals, maxStack, className, code, nil)
	in.Thread.PushFrame(frame)
	in.Thread.PC = 0

	for in.Thread.StackDepth() > 0 {
		frame, err := in.Thread.CurrentFrame()
		if err != nil {
			return nil, err
		}
		pc := in.Thread.PC
		if pc < 0 || pc >= len(frame.Code) {
			return nil, fmt.Errorf("in %s: %w: pc=%d code_length=%d",
				frame.ClassName, ErrPcOutOfBounds, pc, len(frame.Code))
		}
		opcode := frame.Code[pc]

		result, done, err := in.step(frame, opcode, pc)
		if err != nil {
			return nil, fmt.Errorf("in %s at pc=%d (%s): %w",
				frame.ClassName, pc, OpcodeName(opcode), err)
		}
		if done {
			return result, nil
		}
	}
	return nil, nil
}

// step executes one instruction. It advances or redirects the thread
// PC itself; done is true only for a top-level return, in which case
// result carries the return value (nil for void).
func (in *Interpreter) step(frame *Frame, opcode byte, pc int) (result *Value, done bool, err error) {
	switch opcode {
	case OpNop:
		in.Thread.PC = pc + 1

	// --- Constants ---
	case OpAconstNull:
		if err := frame.Push(NullValue()); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5:
		if err := frame.Push(IntValue(int32(opcode) - OpIconst0)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpBipush:
		v, err := operandI8(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		if err := frame.Push(IntValue(int32(v))); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 2

	case OpSipush:
		v, err := operandI16(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		if err := frame.Push(IntValue(int32(v))); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 3

	// --- Loads ---
	case OpIload, OpAload:
		index, err := operandU8(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		if err := in.loadLocal(frame, int(index)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 2

	case OpIload0, OpIload1, OpIload2, OpIload3:
		if err := in.loadLocal(frame, int(opcode-OpIload0)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpAload0, OpAload1, OpAload2, OpAload3:
		if err := in.loadLocal(frame, int(opcode-OpAload0)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	// --- Stores ---
	case OpIstore, OpAstore:
		index, err := operandU8(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		if err := in.storeLocal(frame, int(index)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 2

	case OpIstore0, OpIstore1, OpIstore2, OpIstore3:
		if err := in.storeLocal(frame, int(opcode-OpIstore0)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpAstore0, OpAstore1, OpAstore2, OpAstore3:
		if err := in.storeLocal(frame, int(opcode-OpAstore0)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	// --- Stack manipulation ---
	case OpPop:
		if _, err := frame.Pop(); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpDup:
		v, err := frame.Peek()
		if err != nil {
			return nil, false, err
		}
		if err := frame.Push(v); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpSwap:
		v1, err := frame.Pop()
		if err != nil {
			return nil, false, err
		}
		v2, err := frame.Pop()
		if err != nil {
			return nil, false, err
		}
		if err := frame.Push(v1); err != nil {
			return nil, false, err
		}
		if err := frame.Push(v2); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	// --- Integer arithmetic ---
	// Pop order reverses push order: v2 comes off first, the result
	// is v1 op v2. Overflow wraps in two's complement.
	case OpIadd:
		if err := in.intBinaryOp(frame, pc, func(v1, v2 int32) (int32, error) { return v1 + v2, nil }); err != nil {
			return nil, false, err
		}

	case OpIsub:
		if err := in.intBinaryOp(frame, pc, func(v1, v2 int32) (int32, error) { return v1 - v2, nil }); err != nil {
			return nil, false, err
		}

	case OpImul:
		if err := in.intBinaryOp(frame, pc, func(v1, v2 int32) (int32, error) { return v1 * v2, nil }); err != nil {
			return nil, false, err
		}

	case OpIdiv:
		if err := in.intBinaryOp(frame, pc, func(v1, v2 int32) (int32, error) {
			if v2 == 0 {
				return 0, ErrArithmeticDivisionByZero
			}
			if v1 == -1<<31 && v2 == -1 {
				return v1, nil // INT_MIN / -1 wraps to INT_MIN
			}
			return v1 / v2, nil
		}); err != nil {
			return nil, false, err
		}

	case OpIrem:
		if err := in.intBinaryOp(frame, pc, func(v1, v2 int32) (int32, error) {
			if v2 == 0 {
				return 0, ErrArithmeticDivisionByZero
			}
			if v1 == -1<<31 && v2 == -1 {
				return 0, nil
			}
			return v1 % v2, nil
		}); err != nil {
			return nil, false, err
		}

	case OpIneg:
		v, err := frame.PopInt()
		if err != nil {
			return nil, false, err
		}
		if err := frame.Push(IntValue(-v)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 1

	case OpIinc:
		index, err := operandU8(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		delta, err := operandI8At(frame.Code, pc+1)
		if err != nil {
			return nil, false, err
		}
		v, err := frame.GetLocal(int(index))
		if err != nil {
			return nil, false, err
		}
		if v.Kind != KindInt {
			return nil, false, fmt.Errorf("iinc: local %d holds %s, not int", index, v.Kind)
		}
		if err := frame.SetLocal(int(index), IntValue(v.Int+int32(delta))); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 3

	// --- Branches ---
	// The 16-bit offset is signed and measured from the opcode's PC.
	case OpIfeq:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v == 0 })
	case OpIfne:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v != 0 })
	case OpIflt:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v < 0 })
	case OpIfge:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v >= 0 })
	case OpIfgt:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v > 0 })
	case OpIfle:
		err = in.branchUnary(frame, pc, func(v int32) bool { return v <= 0 })

	case OpIfIcmpeq:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 == v2 })
	case OpIfIcmpne:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 != v2 })
	case OpIfIcmplt:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 < v2 })
	case OpIfIcmpge:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 >= v2 })
	case OpIfIcmpgt:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 > v2 })
	case OpIfIcmple:
		err = in.branchBinary(frame, pc, func(v1, v2 int32) bool { return v1 <= v2 })

	case OpGoto:
		offset, err := operandI16(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + int(offset)

	// --- Field access ---
	case OpGetstatic:
		err = in.getStatic(frame, pc)
	case OpPutstatic:
		err = in.putStatic(frame, pc)
	case OpGetfield:
		err = in.getField(frame, pc)
	case OpPutfield:
		err = in.putField(frame, pc)

	// --- Object creation ---
	case OpNew:
		index, err := operandU16(frame.Code, pc)
		if err != nil {
			return nil, false, err
		}
		meta, err := in.Metaspace.GetClass(frame.ClassName)
		if err != nil {
			return nil, false, err
		}
		className, err := meta.ResolveClassRef(index)
		if err != nil {
			return nil, false, err
		}
		handle := in.Heap.Allocate(className)
		if err := frame.Push(RefValue(handle)); err != nil {
			return nil, false, err
		}
		in.Thread.PC = pc + 3

	// --- Method invocation ---
	case OpInvokestatic:
		err = in.invokeStatic(frame, pc)
	case OpInvokespecial:
		err = in.invokeSpecial(frame, pc)
	case OpInvokevirtual:
		err = in.invokeVirtual(frame, pc)

	// --- Returns ---
	case OpIreturn:
		v, err := frame.Pop()
		if err != nil {
			return nil, false, err
		}
		return in.returnFromFrame(&v)

	case OpReturn:
		return in.returnFromFrame(nil)

	default:
		return nil, false, fmt.Errorf("%w: %s (0x%02x) at pc=%d", ErrUnsupportedOpcode, OpcodeName(opcode), opcode, pc)
	}
	return nil, false, err
}

// returnFromFrame pops the finished frame. A saved return address
// resumes the caller (pushing the value, if any, onto its operand
// stack); no return address means this was the bottom frame and the
// dispatch loop terminates.
func (in *Interpreter) returnFromFrame(value *Value) (*Value, bool, error) {
	finished, err := in.Thread.PopFrame()
	if err != nil {
		return nil, false, err
	}
	if finished.ReturnAddress == nil {
		return value, true, nil
	}

	caller, err := in.Thread.CurrentFrame()
	if err != nil {
		return nil, false, err
	}
	if value != nil {
		if err := caller.Push(*value); err != nil {
			return nil, false, err
		}
	}
	in.Thread.PC = *finished.ReturnAddress
	return nil, false, nil
}

func (in *Interpreter) loadLocal(frame *Frame, index int) error {
	v, err := frame.GetLocal(index)
	if err != nil {
		return err
	}
	return frame.Push(v)
}

func (in *Interpreter) storeLocal(frame *Frame, index int) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.SetLocal(index, v)
}

func (in *Interpreter) intBinaryOp(frame *Frame, pc int, op func(v1, v2 int32) (int32, error)) error {
	v2, err := frame.PopInt()
	if err != nil {
		return err
	}
	v1, err := frame.PopInt()
	if err != nil {
		return err
	}
	result, err := op(v1, v2)
	if err != nil {
		return err
	}
	if err := frame.Push(IntValue(result)); err != nil {
		return err
	}
	in.Thread.PC = pc + 1
	return nil
}

func (in *Interpreter) branchUnary(frame *Frame, pc int, cond func(int32) bool) error {
	offset, err := operandI16(frame.Code, pc)
	if err != nil {
		return err
	}
	v, err := frame.PopInt()
	if err != nil {
		return err
	}
	if cond(v) {
		in.Thread.PC = pc + int(offset)
	} else {
		in.Thread.PC = pc + 3
	}
	return nil
}

func (in *Interpreter) branchBinary(frame *Frame, pc int, cond func(v1, v2 int32) bool) error {
	offset, err := operandI16(frame.Code, pc)
	if err != nil {
		return err
	}
	v2, err := frame.PopInt()
	if err != nil {
		return err
	}
	v1, err := frame.PopInt()
	if err != nil {
		return err
	}
	if cond(v1, v2) {
		in.Thread.PC = pc + int(offset)
	} else {
		in.Thread.PC = pc + 3
	}
	return nil
}

// isSystemClass reports whether invocations on the class are handled as
// intrinsics rather than loaded bytecode.
func isSystemClass(className string) bool {
	return strings.HasPrefix(className, systemClassPrefix)
}

// systemPrintStream returns the heap handle backing
// java/lang/System.out, allocating it on first use so the pushed
// reference is a real, live handle.
func (in *Interpreter) systemPrintStream() int {
	if in.printStream < 0 || !in.Heap.isLive(in.printStream) {
		in.printStream = in.Heap.Allocate("java/io/PrintStream")
	}
	return in.printStream
}

func (in *Interpreter) getStatic(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveFieldRef(index)
	if err != nil {
		return fmt.Errorf("getstatic: %w", err)
	}

	if isSystemClass(ref.ClassName) {
		// System.out and friends: push the built-in print stream.
		if err := frame.Push(RefValue(in.systemPrintStream())); err != nil {
			return err
		}
		in.Thread.PC = pc + 3
		return nil
	}

	target, err := in.Metaspace.GetClass(ref.ClassName)
	if err != nil {
		return fmt.Errorf("getstatic: %w", err)
	}
	v, ok := target.StaticFields[ref.FieldName]
	if !ok {
		v = DefaultValueForDescriptor(ref.Descriptor)
	}
	if err := frame.Push(v); err != nil {
		return err
	}
	in.Thread.PC = pc + 3
	return nil
}

func (in *Interpreter) putStatic(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveFieldRef(index)
	if err != nil {
		return fmt.Errorf("putstatic: %w", err)
	}

	value, err := frame.Pop()
	if err != nil {
		return err
	}
	if !isSystemClass(ref.ClassName) {
		target, err := in.Metaspace.GetClass(ref.ClassName)
		if err != nil {
			return fmt.Errorf("putstatic: %w", err)
		}
		target.StaticFields[ref.FieldName] = value
	}
	in.Thread.PC = pc + 3
	return nil
}

func (in *Interpreter) getField(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveFieldRef(index)
	if err != nil {
		return fmt.Errorf("getfield: %w", err)
	}

	handle, isNull, err := frame.PopRef()
	if err != nil {
		return err
	}
	if isNull {
		return fmt.Errorf("getfield %s.%s: %w: null reference", ref.ClassName, ref.FieldName, ErrBadReference)
	}
	v, err := in.Heap.GetField(handle, ref.FieldName)
	if err != nil {
		return fmt.Errorf("getfield: %w", err)
	}
	if err := frame.Push(v); err != nil {
		return err
	}
	in.Thread.PC = pc + 3
	return nil
}

func (in *Interpreter) putField(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveFieldRef(index)
	if err != nil {
		return fmt.Errorf("putfield: %w", err)
	}

	value, err := frame.Pop()
	if err != nil {
		return err
	}
	handle, isNull, err := frame.PopRef()
	if err != nil {
		return err
	}
	if isNull {
		return fmt.Errorf("putfield %s.%s: %w: null reference", ref.ClassName, ref.FieldName, ErrBadReference)
	}
	if err := in.Heap.SetField(handle, ref.FieldName, value); err != nil {
		return fmt.Errorf("putfield: %w", err)
	}
	in.Thread.PC = pc + 3
	return nil
}

func (in *Interpreter) invokeStatic(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveMethodRef(index)
	if err != nil {
		return fmt.Errorf("invokestatic: %w", err)
	}

	// System classes are intrinsics: the call is skipped outright.
	if isSystemClass(ref.ClassName) {
		in.logger.Debug("skipping system class invocation",
			zap.String("method", ref.ClassName+"."+ref.MethodName+":"+ref.Descriptor))
		in.Thread.PC = pc + 3
		return nil
	}

	target, err := in.Metaspace.GetClass(ref.ClassName)
	if err != nil {
		return fmt.Errorf("invokestatic: %w", err)
	}
	method, err := target.FindMethod(ref.MethodName, ref.Descriptor)
	if err != nil {
		return fmt.Errorf("invokestatic: %w", err)
	}
	argCount, err := CountParams(ref.Descriptor)
	if err != nil {
		return fmt.Errorf("invokestatic: %w", err)
	}

	return in.pushCallFrame(frame, pc, ref.ClassName, method, argCount, false)
}

func (in *Interpreter) invokeSpecial(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveMethodRef(index)
	if err != nil {
		return fmt.Errorf("invokespecial: %w", err)
	}

	// Synthesized <init> chains into java/lang/Object succeed as
	// no-ops; the receiver pushed by new/dup stays untouched.
	if isSystemClass(ref.ClassName) {
		in.logger.Debug("skipping system class invocation",
			zap.String("method", ref.ClassName+"."+ref.MethodName+":"+ref.Descriptor))
		in.Thread.PC = pc + 3
		return nil
	}

	target, err := in.Metaspace.GetClass(ref.ClassName)
	if err != nil {
		return fmt.Errorf("invokespecial: %w", err)
	}
	method, err := target.FindMethod(ref.MethodName, ref.Descriptor)
	if err != nil {
		return fmt.Errorf("invokespecial: %w", err)
	}
	argCount, err := CountParams(ref.Descriptor)
	if err != nil {
		return fmt.Errorf("invokespecial: %w", err)
	}

	return in.pushCallFrame(frame, pc, ref.ClassName, method, argCount, true)
}

// pushCallFrame pops the callee's arguments (and receiver, for
// instance calls) off the caller's operand stack, writes them into the
// callee's locals in declaration order, and transfers control. The pop
// order reverses the push order so argument 0 lands in the first slot.
func (in *Interpreter) pushCallFrame(caller *Frame, pc int, className string, method *MethodMetadata, argCount int, hasReceiver bool) error {
	returnAddress := pc + 3
	callee := NewFrame(method.MaxLocals, method.MaxStack, className, method.Code, &returnAddress)

	firstSlot := 0
	if hasReceiver {
		firstSlot = 1
	}
	for i := argCount - 1; i >= 0; i-- {
		v, err := caller.Pop()
		if err != nil {
			return err
		}
		if err := callee.SetLocal(firstSlot+i, v); err != nil {
			return err
		}
	}
	if hasReceiver {
		receiver, err := caller.Pop()
		if err != nil {
			return err
		}
		if err := callee.SetLocal(0, receiver); err != nil {
			return err
		}
	}

	in.Thread.PushFrame(callee)
	in.Thread.PC = 0
	return nil
}

func (in *Interpreter) invokeVirtual(frame *Frame, pc int) error {
	index, err := operandU16(frame.Code, pc)
	if err != nil {
		return err
	}
	meta, err := in.Metaspace.GetClass(frame.ClassName)
	if err != nil {
		return err
	}
	ref, err := meta.ResolveMethodRef(index)
	if err != nil {
		return fmt.Errorf("invokevirtual: %w", err)
	}

	if ref.MethodName == "println" {
		return in.invokePrintln(frame, pc, ref)
	}

	return fmt.Errorf("%w: invokevirtual %s.%s:%s", ErrUnsupportedOpcode,
		ref.ClassName, ref.MethodName, ref.Descriptor)
}

// invokePrintln is the one virtual dispatch the engine implements: it
// pops the arguments and receiver, and writes one formatted line per
// argument to Stdout (an empty line for the no-argument overload).
func (in *Interpreter) invokePrintln(frame *Frame, pc int, ref ResolvedMethodRef) error {
	argCount, err := CountParams(ref.Descriptor)
	if err != nil {
		return fmt.Errorf("println: %w", err)
	}

	args := make([]Value, argCount)
	for i := argCount - 1; i >= 0; i-- {
		v, err := frame.Pop()
		if err != nil {
			return err
		}
		args[i] = v
	}
	if _, err := frame.Pop(); err != nil { // receiver
		return err
	}

	if argCount == 0 {
		fmt.Fprintln(in.Stdout)
	}
	for _, arg := range args {
		fmt.Fprintln(in.Stdout, formatPrintArg(arg))
	}

	in.Thread.PC = pc + 3
	return nil
}

// formatPrintArg renders a value the way the println intrinsic prints
// it: decimal for the numeric kinds, Reference@<hex> for live
// references, null for the null reference.
func formatPrintArg(v Value) string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindLong:
		return fmt.Sprintf("%d", v.Long)
	case KindFloat:
		return fmt.Sprintf("%v", v.Float)
	case KindDouble:
		return fmt.Sprintf("%v", v.Double)
	case KindRef:
		if v.IsNull {
			return "null"
		}
		return fmt.Sprintf("Reference@%x", v.Ref)
	}
	return fmt.Sprintf("%v", v)
}

// Operand readers. The instruction's opcode sits at pc; operands
// follow it. Reading past the end of the code is a PC error.

func operandU8(code []byte, pc int) (uint8, error) {
	if pc+1 >= len(code) {
		return 0, fmt.Errorf("%w: operand at %d past code end", ErrPcOutOfBounds, pc+1)
	}
	return code[pc+1], nil
}

func operandI8(code []byte, pc int) (int8, error) {
	v, err := operandU8(code, pc)
	return int8(v), err
}

// operandI8At reads the signed byte that follows position pos (iinc
// passes pc+1 to read its second operand at pc+2).
func operandI8At(code []byte, pos int) (int8, error) {
	if pos+1 >= len(code) {
		return 0, fmt.Errorf("%w: operand at %d past code end", ErrPcOutOfBounds, pos+1)
	}
	return int8(code[pos+1]), nil
}

func operandU16(code []byte, pc int) (uint16, error) {
	if pc+2 >= len(code) {
		return 0, fmt.Errorf("%w: operand at %d past code end", ErrPcOutOfBounds, pc+2)
	}
	return uint16(code[pc+1])<<8 | uint16(code[pc+2]), nil
}

func operandI16(code []byte, pc int) (int16, error) {
	v, err := operandU16(code, pc)
	return int16(v), err
}
