package vm

import (
	"errors"
	"testing"
)

func mustPush(t *testing.T, f *Frame, v Value) {
	t.Helper()
	if err := f.Push(v); err != nil {
		t.Fatalf("Push: %v", err)
	}
}

func TestFramePushPop(t *testing.T) {
	t.Run("LIFO order", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)

		mustPush(t, frame, IntValue(10))
		mustPush(t, frame, IntValue(20))
		mustPush(t, frame, IntValue(30))

		for _, want := range []int32{30, 20, 10} {
			v, err := frame.Pop()
			if err != nil {
				t.Fatalf("Pop: %v", err)
			}
			if v.Int != want {
				t.Errorf("Pop: got %d, want %d", v.Int, want)
			}
		}
	})

	t.Run("underflow", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)
		if _, err := frame.Pop(); !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("Pop on empty stack: got %v, want ErrStackUnderflow", err)
		}
	})

	t.Run("overflow at max_stack", func(t *testing.T) {
		frame := NewFrame(0, 2, "Test", nil, nil)
		mustPush(t, frame, IntValue(1))
		mustPush(t, frame, IntValue(2))
		if err := frame.Push(IntValue(3)); !errors.Is(err, ErrStackOverflow) {
			t.Errorf("Push past max_stack: got %v, want ErrStackOverflow", err)
		}
	})

	t.Run("peek does not pop", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)
		mustPush(t, frame, IntValue(7))

		v, err := frame.Peek()
		if err != nil {
			t.Fatalf("Peek: %v", err)
		}
		if v.Int != 7 {
			t.Errorf("Peek: got %d, want 7", v.Int)
		}
		if frame.StackSize() != 1 {
			t.Errorf("StackSize after Peek: got %d, want 1", frame.StackSize())
		}
	})
}

func TestFrameTypedPoppers(t *testing.T) {
	t.Run("matching kinds", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)

		mustPush(t, frame, IntValue(-5))
		if v, err := frame.PopInt(); err != nil || v != -5 {
			t.Errorf("PopInt: got (%d, %v), want (-5, nil)", v, err)
		}

		mustPush(t, frame, LongValue(1<<40))
		if v, err := frame.PopLong(); err != nil || v != 1<<40 {
			t.Errorf("PopLong: got (%d, %v)", v, err)
		}

		mustPush(t, frame, FloatValue(1.5))
		if v, err := frame.PopFloat(); err != nil || v != 1.5 {
			t.Errorf("PopFloat: got (%v, %v)", v, err)
		}

		mustPush(t, frame, DoubleValue(2.25))
		if v, err := frame.PopDouble(); err != nil || v != 2.25 {
			t.Errorf("PopDouble: got (%v, %v)", v, err)
		}

		mustPush(t, frame, RefValue(3))
		handle, isNull, err := frame.PopRef()
		if err != nil || isNull || handle != 3 {
			t.Errorf("PopRef: got (%d, %v, %v), want (3, false, nil)", handle, isNull, err)
		}

		mustPush(t, frame, NullValue())
		_, isNull, err = frame.PopRef()
		if err != nil || !isNull {
			t.Errorf("PopRef null: got (isNull=%v, %v), want (true, nil)", isNull, err)
		}
	})

	t.Run("kind mismatch", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)
		mustPush(t, frame, IntValue(1))
		if _, err := frame.PopLong(); !errors.Is(err, ErrStackTypeMismatch) {
			t.Errorf("PopLong on int: got %v, want ErrStackTypeMismatch", err)
		}

		mustPush(t, frame, RefValue(0))
		if _, err := frame.PopInt(); !errors.Is(err, ErrStackTypeMismatch) {
			t.Errorf("PopInt on reference: got %v, want ErrStackTypeMismatch", err)
		}
	})

	t.Run("empty stack", func(t *testing.T) {
		frame := NewFrame(0, 10, "Test", nil, nil)
		if _, err := frame.PopInt(); !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("PopInt on empty stack: got %v, want ErrStackUnderflow", err)
		}
	})
}

func TestFrameLocalVars(t *testing.T) {
	t.Run("zero initialized", func(t *testing.T) {
		frame := NewFrame(3, 1, "Test", nil, nil)
		for i := 0; i < 3; i++ {
			v, err := frame.GetLocal(i)
			if err != nil {
				t.Fatalf("GetLocal(%d): %v", i, err)
			}
			if v.Kind != KindInt || v.Int != 0 {
				t.Errorf("GetLocal(%d): got %+v, want Int(0)", i, v)
			}
		}
	})

	t.Run("set and get", func(t *testing.T) {
		frame := NewFrame(4, 1, "Test", nil, nil)
		for i, val := range []int32{10, 20, 30, 40} {
			if err := frame.SetLocal(i, IntValue(val)); err != nil {
				t.Fatalf("SetLocal(%d): %v", i, err)
			}
		}
		for i, want := range []int32{10, 20, 30, 40} {
			v, err := frame.GetLocal(i)
			if err != nil {
				t.Fatalf("GetLocal(%d): %v", i, err)
			}
			if v.Int != want {
				t.Errorf("GetLocal(%d): got %d, want %d", i, v.Int, want)
			}
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		frame := NewFrame(2, 1, "Test", nil, nil)
		if _, err := frame.GetLocal(2); !errors.Is(err, ErrLocalOutOfBounds) {
			t.Errorf("GetLocal(2): got %v, want ErrLocalOutOfBounds", err)
		}
		if err := frame.SetLocal(-1, IntValue(0)); !errors.Is(err, ErrLocalOutOfBounds) {
			t.Errorf("SetLocal(-1): got %v, want ErrLocalOutOfBounds", err)
		}
	})

	t.Run("locals independent from stack", func(t *testing.T) {
		frame := NewFrame(1, 10, "Test", nil, nil)
		if err := frame.SetLocal(0, IntValue(10)); err != nil {
			t.Fatalf("SetLocal: %v", err)
		}
		mustPush(t, frame, IntValue(99))

		v, err := frame.GetLocal(0)
		if err != nil {
			t.Fatalf("GetLocal: %v", err)
		}
		if v.Int != 10 {
			t.Errorf("GetLocal after push: got %d, want 10", v.Int)
		}
	})
}

func TestThreadFrameStack(t *testing.T) {
	thread := NewThread()

	if _, err := thread.CurrentFrame(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("CurrentFrame on empty thread: got %v", err)
	}
	if _, err := thread.PopFrame(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("PopFrame on empty thread: got %v", err)
	}

	f1 := NewFrame(0, 1, "A", []byte{0xB1}, nil)
	ret := 3
	f2 := NewFrame(0, 1, "B", []byte{0xAC}, &ret)
	thread.PushFrame(f1)
	thread.PushFrame(f2)

	if thread.StackDepth() != 2 {
		t.Errorf("StackDepth: got %d, want 2", thread.StackDepth())
	}

	top, err := thread.CurrentFrame()
	if err != nil {
		t.Fatalf("CurrentFrame: %v", err)
	}
	if top.ClassName != "B" {
		t.Errorf("top frame: got %s, want B", top.ClassName)
	}

	code, err := thread.CurrentCode()
	if err != nil {
		t.Fatalf("CurrentCode: %v", err)
	}
	if len(code) != 1 || code[0] != 0xAC {
		t.Errorf("CurrentCode: got % x", code)
	}

	popped, err := thread.PopFrame()
	if err != nil {
		t.Fatalf("PopFrame: %v", err)
	}
	if popped != f2 {
		t.Error("PopFrame returned wrong frame")
	}
	if thread.StackDepth() != 1 {
		t.Errorf("StackDepth after pop: got %d, want 1", thread.StackDepth())
	}
}
