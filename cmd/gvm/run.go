package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classbyte/gvm/pkg/classfile"
	"github.com/classbyte/gvm/pkg/classpath"
	"github.com/classbyte/gvm/pkg/vm"
)

func newRunCmd() *cobra.Command {
	var methodName string
	var extraPaths []string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load a class file and execute one of its methods",
		Long: "Loads the class into the metaspace and executes the named method, " +
			"or public static void main(String[]) when no method is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassFile(cmd.OutOrStdout(), args[0], methodName, extraPaths)
		},
	}
	cmd.Flags().StringVarP(&methodName, "method", "m", "", "method to run (first match by name)")
	cmd.Flags().StringSliceVar(&extraPaths, "classpath", nil, "additional class search directories")
	return cmd
}

func runClassFile(w io.Writer, path, methodName string, extraPaths []string) error {
	className := strings.TrimSuffix(filepath.Base(path), ".class")

	cp := classpath.New(filepath.Dir(path))
	for _, p := range extraPaths {
		cp.AddPath(p)
	}
	cp.SetLogger(logger)

	cf, err := cp.Load(className)
	if err != nil {
		return err
	}

	var method *classfile.MethodInfo
	if methodName != "" {
		method = cf.FindMethodByName(methodName)
		if method == nil {
			return fmt.Errorf("method %s not found in %s", methodName, className)
		}
	} else {
		method = cf.FindMainMethod()
		if method == nil {
			return fmt.Errorf("no public static void main(String[]) in %s", className)
		}
	}
	if method.Code == nil {
		return fmt.Errorf("method %s:%s has no Code attribute", method.Name, method.Descriptor)
	}

	ms := vm.NewMetaspace()
	if err := ms.LoadClass(cf); err != nil {
		return err
	}

	interp := vm.NewInterpreter(ms)
	interp.Stdout = w
	interp.SetLogger(logger)

	result, err := interp.Execute(className, method.Code.Code, int(method.Code.MaxLocals), int(method.Code.MaxStack))
	if err != nil {
		return err
	}

	if result != nil {
		fmt.Fprintf(w, "=> %s\n", result)
	}
	return nil
}
