package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/classbyte/gvm/pkg/classfile"
	"github.com/classbyte/gvm/pkg/vm"
)

func newParseCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Decode a class file and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return parseClassFile(cmd.OutOrStdout(), args[0], verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show Code attributes, bytecode, and the constant pool")
	return cmd
}

func parseClassFile(w io.Writer, path string, verbose bool) error {
	cf, err := classfile.ParseFile(path)
	if err != nil {
		return err
	}

	className, err := cf.ClassName()
	if err != nil {
		return err
	}
	superName, err := cf.SuperClassName()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Parsed: %s\n\n", path)
	fmt.Fprintf(w, "magic:        0xCAFEBABE\n")
	fmt.Fprintf(w, "version:      %d.%d (%s)\n", cf.MajorVersion, cf.MinorVersion, cf.JavaVersion())
	fmt.Fprintf(w, "class:        %s\n", className)
	fmt.Fprintf(w, "super:        %s\n", superName)
	fmt.Fprintf(w, "access flags: 0x%04X\n", cf.AccessFlags)

	if len(cf.Interfaces) > 0 {
		fmt.Fprintf(w, "\nInterfaces (%d):\n", len(cf.Interfaces))
		for i, ifIdx := range cf.Interfaces {
			name, err := classfile.GetClassName(cf.ConstantPool, ifIdx)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  [%d] %s\n", i, name)
		}
	}

	fmt.Fprintf(w, "\nFields (%d):\n", len(cf.Fields))
	if len(cf.Fields) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"#", "Name", "Descriptor", "Flags"})
		for i, f := range cf.Fields {
			table.Append([]string{
				strconv.Itoa(i), f.Name, f.Descriptor, fmt.Sprintf("0x%04X", f.AccessFlags),
			})
		}
		table.Render()
	}

	fmt.Fprintf(w, "\nMethods (%d):\n", len(cf.Methods))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Descriptor", "Flags", "Code"})
	for i, m := range cf.Methods {
		codeLen := "-"
		if m.Code != nil {
			codeLen = strconv.Itoa(len(m.Code.Code))
		}
		table.Append([]string{
			strconv.Itoa(i), m.Name, m.Descriptor, fmt.Sprintf("0x%04X", m.AccessFlags), codeLen,
		})
	}
	table.Render()

	if !verbose {
		return nil
	}

	for _, m := range cf.Methods {
		if m.Code == nil {
			continue
		}
		fmt.Fprintf(w, "\nCode of %s:%s\n", m.Name, m.Descriptor)
		fmt.Fprintf(w, "  max_stack=%d max_locals=%d code_length=%d handlers=%d\n",
			m.Code.MaxStack, m.Code.MaxLocals, len(m.Code.Code), len(m.Code.ExceptionHandlers))
		for _, line := range vm.Disassemble(m.Code.Code) {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	fmt.Fprintf(w, "\nConstant pool (%d entries):\n", len(cf.ConstantPool)-1)
	for i := 1; i < len(cf.ConstantPool); i++ {
		entry := cf.ConstantPool[i]
		if entry == nil {
			continue // slot after a Long/Double entry
		}
		fmt.Fprintf(w, "  [%d] %s\n", i, describeConstant(cf.ConstantPool, entry))
	}
	return nil
}

func describeConstant(pool []classfile.ConstantPoolEntry, entry classfile.ConstantPoolEntry) string {
	switch c := entry.(type) {
	case *classfile.ConstantUtf8:
		return fmt.Sprintf("Utf8 %q", c.Value)
	case *classfile.ConstantInteger:
		return fmt.Sprintf("Integer %d", c.Value)
	case *classfile.ConstantFloat:
		return fmt.Sprintf("Float %v", c.Value)
	case *classfile.ConstantLong:
		return fmt.Sprintf("Long %d", c.Value)
	case *classfile.ConstantDouble:
		return fmt.Sprintf("Double %v", c.Value)
	case *classfile.ConstantClass:
		name, err := classfile.GetUtf8(pool, c.NameIndex)
		if err != nil {
			return fmt.Sprintf("Class #%d", c.NameIndex)
		}
		return fmt.Sprintf("Class %s", name)
	case *classfile.ConstantString:
		s, err := classfile.GetUtf8(pool, c.StringIndex)
		if err != nil {
			return fmt.Sprintf("String #%d", c.StringIndex)
		}
		return fmt.Sprintf("String %q", s)
	case *classfile.ConstantFieldref:
		return fmt.Sprintf("Fieldref class=#%d name_and_type=#%d", c.ClassIndex, c.NameAndTypeIndex)
	case *classfile.ConstantMethodref:
		return fmt.Sprintf("Methodref class=#%d name_and_type=#%d", c.ClassIndex, c.NameAndTypeIndex)
	case *classfile.ConstantInterfaceMethodref:
		return fmt.Sprintf("InterfaceMethodref class=#%d name_and_type=#%d", c.ClassIndex, c.NameAndTypeIndex)
	case *classfile.ConstantNameAndType:
		return fmt.Sprintf("NameAndType name=#%d descriptor=#%d", c.NameIndex, c.DescriptorIndex)
	case *classfile.ConstantMethodHandle:
		return fmt.Sprintf("MethodHandle kind=%d ref=#%d", c.ReferenceKind, c.ReferenceIndex)
	case *classfile.ConstantMethodType:
		return fmt.Sprintf("MethodType descriptor=#%d", c.DescriptorIndex)
	case *classfile.ConstantInvokeDynamic:
		return fmt.Sprintf("InvokeDynamic bootstrap=#%d name_and_type=#%d", c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
	}
	return fmt.Sprintf("tag=%d", entry.Tag())
}
