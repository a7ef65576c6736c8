// Package classpath locates .class files on disk by internal class
// name, searching an ordered list of directories.
package classpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/classbyte/gvm/pkg/classfile"
)

var (
	// ErrClassNotFound means no search path contained the class.
	ErrClassNotFound = errors.New("class not found")

	// ErrClassNameMismatch means a file was found but declares a
	// different internal name than the one requested.
	ErrClassNameMismatch = errors.New("class name mismatch")
)

// ClassPath searches directories for class files and caches parse
// results. The search order is the order paths were added.
type ClassPath struct {
	paths  []string
	cache  map[string]*classfile.ClassFile
	logger *zap.Logger
}

// New creates a class path over the given directories.
func New(paths ...string) *ClassPath {
	return &ClassPath{
		paths:  append([]string(nil), paths...),
		cache:  make(map[string]*classfile.ClassFile),
		logger: zap.NewNop(),
	}
}

// SetLogger installs a logger for search tracing.
func (cp *ClassPath) SetLogger(l *zap.Logger) {
	if l != nil {
		cp.logger = l
	}
}

// AddPath appends a directory to the search list.
func (cp *ClassPath) AddPath(path string) {
	cp.paths = append(cp.paths, path)
}

// Load locates and parses the class with the given internal name
// (e.g. "com/example/Foo"). The decoded class must declare the
// requested name; a file that parses but names a different class is
// rejected.
func (cp *ClassPath) Load(name string) (*classfile.ClassFile, error) {
	if cf, ok := cp.cache[name]; ok {
		return cf, nil
	}

	fileName := name + ".class"
	for _, dir := range cp.paths {
		path := filepath.Join(dir, filepath.FromSlash(fileName))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cp.logger.Debug("loading class file", zap.String("class", name), zap.String("path", path))

		cf, err := classfile.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading class %s from %s: %w", name, path, err)
		}
		loadedName, err := cf.ClassName()
		if err != nil {
			return nil, fmt.Errorf("loading class %s from %s: %w", name, path, err)
		}
		if loadedName != name {
			return nil, fmt.Errorf("%w: requested %s, file declares %s", ErrClassNameMismatch, name, loadedName)
		}

		cp.cache[name] = cf
		return cf, nil
	}

	return nil, fmt.Errorf("%w: %s (searched %d directories)", ErrClassNotFound, name, len(cp.paths))
}
