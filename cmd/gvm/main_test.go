package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helloWorldImage assembles a class "HelloWorld" whose main method
// prints 42 via System.out.println(int).
func helloWorldImage(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.BigEndian, v) }
	utf8 := func(s string) {
		buf.WriteByte(1)
		w(uint16(len(s)))
		buf.WriteString(s)
	}
	class := func(nameIndex uint16) {
		buf.WriteByte(7)
		w(nameIndex)
	}

	w(uint32(0xCAFEBABE))
	w(uint16(0))
	w(uint16(52))

	w(uint16(18)) // constant pool count
	utf8("HelloWorld")            // 1
	class(1)                      // 2
	utf8("java/lang/System")      // 3
	class(3)                      // 4
	utf8("out")                   // 5
	utf8("Ljava/io/PrintStream;") // 6
	buf.WriteByte(12)             // 7: NameAndType(5, 6)
	w(uint16(5))
	w(uint16(6))
	buf.WriteByte(9) // 8: Fieldref(4, 7)
	w(uint16(4))
	w(uint16(7))
	utf8("java/io/PrintStream") // 9
	class(9)                    // 10
	utf8("println")             // 11
	utf8("(I)V")                // 12
	buf.WriteByte(12)           // 13: NameAndType(11, 12)
	w(uint16(11))
	w(uint16(12))
	buf.WriteByte(10) // 14: Methodref(10, 13)
	w(uint16(10))
	w(uint16(13))
	utf8("main")                   // 15
	utf8("([Ljava/lang/String;)V") // 16
	utf8("Code")                   // 17

	w(uint16(0x0021)) // access flags
	w(uint16(2))      // this_class
	w(uint16(0))      // super_class
	w(uint16(0))      // interfaces
	w(uint16(0))      // fields

	w(uint16(1)) // methods
	w(uint16(0x0009))
	w(uint16(15))
	w(uint16(16))
	w(uint16(1))  // one attribute
	w(uint16(17)) // "Code"
	// getstatic #8, bipush 42, invokevirtual #14, return
	code := []byte{0xB2, 0x00, 0x08, 0x10, 0x2A, 0xB6, 0x00, 0x0E, 0xB1}
	var body bytes.Buffer
	bw := func(v any) { binary.Write(&body, binary.BigEndian, v) }
	bw(uint16(2)) // max_stack
	bw(uint16(1)) // max_locals
	bw(uint32(len(code)))
	body.Write(code)
	bw(uint16(0)) // exception table
	bw(uint16(0)) // nested attributes
	w(uint32(body.Len()))
	buf.Write(body.Bytes())

	w(uint16(0)) // class attributes

	return buf.Bytes()
}

func writeHelloWorld(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "HelloWorld.class")
	if err := os.WriteFile(path, helloWorldImage(t), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCommand(t *testing.T) {
	path := writeHelloWorld(t)

	var out bytes.Buffer
	if err := runClassFile(&out, path, "", nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "42\n" {
		t.Errorf("output: got %q, want %q", out.String(), "42\n")
	}
}

func TestRunCommandNamedMethod(t *testing.T) {
	path := writeHelloWorld(t)

	var out bytes.Buffer
	if err := runClassFile(&out, path, "main", nil); err != nil {
		t.Fatalf("run --method main: %v", err)
	}
	if out.String() != "42\n" {
		t.Errorf("output: got %q, want %q", out.String(), "42\n")
	}
}

func TestRunCommandMethodNotFound(t *testing.T) {
	path := writeHelloWorld(t)

	var out bytes.Buffer
	if err := runClassFile(&out, path, "missing", nil); err == nil {
		t.Fatal("expected error for missing method")
	}
}

func TestParseCommand(t *testing.T) {
	path := writeHelloWorld(t)

	var out bytes.Buffer
	if err := parseClassFile(&out, path, true); err != nil {
		t.Fatalf("parse: %v", err)
	}
	text := out.String()
	for _, want := range []string{"HelloWorld", "java/lang/Object", "Java 8", "main", "getstatic", "invokevirtual", "Methodref"} {
		if !strings.Contains(text, want) {
			t.Errorf("parse output missing %q", want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("version output: got %q", out.String())
	}
}
