package vm

import (
	"github.com/classbyte/gvm/pkg/classfile"
)

// Test classes are assembled as ClassFile values directly; the binary
// decode path has its own tests in pkg/classfile.

// calcClassFile builds class "Calc" with
//
//	static int sum(int, int) { return a + b; }        // 1a 1b 60 ac
//	static int main-like caller: sum(10, 20)           // 10 0a 10 14 b8 #6 ac
//
// Pool: 1=Utf8 Calc, 2=Class(1), 3=Utf8 sum, 4=Utf8 (II)I,
// 5=NameAndType(3,4), 6=Methodref(2,5).
func calcClassFile() *classfile.ClassFile {
	return &classfile.ClassFile{
		MajorVersion: 52,
		ConstantPool: []classfile.ConstantPoolEntry{
			nil,
			&classfile.ConstantUtf8{Value: "Calc"},
			&classfile.ConstantClass{NameIndex: 1},
			&classfile.ConstantUtf8{Value: "sum"},
			&classfile.ConstantUtf8{Value: "(II)I"},
			&classfile.ConstantNameAndType{NameIndex: 3, DescriptorIndex: 4},
			&classfile.ConstantMethodref{ClassIndex: 2, NameAndTypeIndex: 5},
		},
		AccessFlags: classfile.AccPublic | classfile.AccSuper,
		ThisClass:   2,
		Methods: []classfile.MethodInfo{
			{
				AccessFlags: classfile.AccPublic | classfile.AccStatic,
				Name:        "sum",
				Descriptor:  "(II)I",
				Code: &classfile.CodeAttribute{
					MaxStack:  2,
					MaxLocals: 2,
					Code:      []byte{0x1A, 0x1B, 0x60, 0xAC},
				},
			},
			{
				AccessFlags: classfile.AccPublic | classfile.AccStatic,
				Name:        "callSum",
				Descriptor:  "()I",
				Code: &classfile.CodeAttribute{
					MaxStack:  2,
					MaxLocals: 0,
					Code:      []byte{0x10, 0x0A, 0x10, 0x14, 0xB8, 0x00, 0x06, 0xAC},
				},
			},
		},
		Fields: []classfile.FieldInfo{
			{AccessFlags: classfile.AccStatic, Name: "total", Descriptor: "I"},
		},
	}
}

// widgetClassFile builds class "Widget" with an int field x, a
// constructor that sets x = 9, and a static make()I that allocates a
// Widget, runs the constructor, and reads the field back.
//
// Pool: 1=Utf8 Widget, 2=Class(1), 3=Utf8 x, 4=Utf8 I,
// 5=NameAndType(3,4), 6=Fieldref(2,5), 7=Utf8 <init>, 8=Utf8 ()V,
// 9=NameAndType(7,8), 10=Methodref(2,9).
func widgetClassFile() *classfile.ClassFile {
	return &classfile.ClassFile{
		MajorVersion: 52,
		ConstantPool: []classfile.ConstantPoolEntry{
			nil,
			&classfile.ConstantUtf8{Value: "Widget"},
			&classfile.ConstantClass{NameIndex: 1},
			&classfile.ConstantUtf8{Value: "x"},
			&classfile.ConstantUtf8{Value: "I"},
			&classfile.ConstantNameAndType{NameIndex: 3, DescriptorIndex: 4},
			&classfile.ConstantFieldref{ClassIndex: 2, NameAndTypeIndex: 5},
			&classfile.ConstantUtf8{Value: "<init>"},
			&classfile.ConstantUtf8{Value: "()V"},
			&classfile.ConstantNameAndType{NameIndex: 7, DescriptorIndex: 8},
			&classfile.ConstantMethodref{ClassIndex: 2, NameAndTypeIndex: 9},
		},
		AccessFlags: classfile.AccPublic | classfile.AccSuper,
		ThisClass:   2,
		Methods: []classfile.MethodInfo{
			{
				AccessFlags: 0,
				Name:        "<init>",
				Descriptor:  "()V",
				// aload_0, bipush 9, putfield #6, return
				Code: &classfile.CodeAttribute{
					MaxStack:  2,
					MaxLocals: 1,
					Code:      []byte{0x2A, 0x10, 0x09, 0xB5, 0x00, 0x06, 0xB1},
				},
			},
			{
				AccessFlags: classfile.AccPublic | classfile.AccStatic,
				Name:        "make",
				Descriptor:  "()I",
				// new #2, dup, invokespecial #10, getfield #6, ireturn
				Code: &classfile.CodeAttribute{
					MaxStack:  2,
					MaxLocals: 0,
					Code:      []byte{0xBB, 0x00, 0x02, 0x59, 0xB7, 0x00, 0x0A, 0xB4, 0x00, 0x06, 0xAC},
				},
			},
		},
		Fields: []classfile.FieldInfo{
			{AccessFlags: 0, Name: "x", Descriptor: "I"},
		},
	}
}

// helloClassFile builds class "HelloApp" whose greet()V prints the int
// 42 via the System.out intrinsic.
//
// Pool: 1=Utf8 HelloApp, 2=Class(1), 3=Utf8 java/lang/System,
// 4=Class(3), 5=Utf8 out, 6=Utf8 Ljava/io/PrintStream;,
// 7=NameAndType(5,6), 8=Fieldref(4,7), 9=Utf8 java/io/PrintStream,
// 10=Class(9), 11=Utf8 println, 12=Utf8 (I)V, 13=NameAndType(11,12),
// 14=Methodref(10,13), 15=Utf8 ()V variant NameAndType pieces:
// 15=Utf8 ()V, 16=NameAndType(11,15), 17=Methodref(10,16).
func helloClassFile() *classfile.ClassFile {
	return &classfile.ClassFile{
		MajorVersion: 52,
		ConstantPool: []classfile.ConstantPoolEntry{
			nil,
			&classfile.ConstantUtf8{Value: "HelloApp"},
			&classfile.ConstantClass{NameIndex: 1},
			&classfile.ConstantUtf8{Value: "java/lang/System"},
			&classfile.ConstantClass{NameIndex: 3},
			&classfile.ConstantUtf8{Value: "out"},
			&classfile.ConstantUtf8{Value: "Ljava/io/PrintStream;"},
			&classfile.ConstantNameAndType{NameIndex: 5, DescriptorIndex: 6},
			&classfile.ConstantFieldref{ClassIndex: 4, NameAndTypeIndex: 7},
			&classfile.ConstantUtf8{Value: "java/io/PrintStream"},
			&classfile.ConstantClass{NameIndex: 9},
			&classfile.ConstantUtf8{Value: "println"},
			&classfile.ConstantUtf8{Value: "(I)V"},
			&classfile.ConstantNameAndType{NameIndex: 11, DescriptorIndex: 12},
			&classfile.ConstantMethodref{ClassIndex: 10, NameAndTypeIndex: 13},
			&classfile.ConstantUtf8{Value: "()V"},
			&classfile.ConstantNameAndType{NameIndex: 11, DescriptorIndex: 15},
			&classfile.ConstantMethodref{ClassIndex: 10, NameAndTypeIndex: 16},
		},
		AccessFlags: classfile.AccPublic | classfile.AccSuper,
		ThisClass:   2,
		Methods: []classfile.MethodInfo{
			{
				AccessFlags: classfile.AccPublic | classfile.AccStatic,
				Name:        "greet",
				Descriptor:  "()V",
				// getstatic #8, bipush 42, invokevirtual #14, return
				Code: &classfile.CodeAttribute{
					MaxStack:  2,
					MaxLocals: 0,
					Code:      []byte{0xB2, 0x00, 0x08, 0x10, 0x2A, 0xB6, 0x00, 0x0E, 0xB1},
				},
			},
			{
				AccessFlags: classfile.AccPublic | classfile.AccStatic,
				Name:        "blankLine",
				Descriptor:  "()V",
				// getstatic #8, invokevirtual #17, return
				Code: &classfile.CodeAttribute{
					MaxStack:  1,
					MaxLocals: 0,
					Code:      []byte{0xB2, 0x00, 0x08, 0xB6, 0x00, 0x11, 0xB1},
				},
			},
		},
	}
}
