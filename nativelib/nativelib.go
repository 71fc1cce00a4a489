//go:build !ios && !android && (amd64 || arm64)

// Package nativelib loads native producer and consumer libraries with purego,
// so exported structure addresses can be handed to the C side without cgo.
//
// Libraries are resolved across platform search paths; the ARROWCDATA_LIB_DIR
// environment variable, when set, is searched first. Producers such as
// nanoarrow and the Arrow C++ glue ship versioned sonames, so Open tries the
// versioned names a caller lists before falling back to the bare name.
package nativelib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/arrowcdata/internal/platform"
)

// EnvLibDir names the environment variable holding extra library search
// directories, in the platform's list separator format.
const EnvLibDir = "ARROWCDATA_LIB_DIR"

// ErrLibraryNotFound is returned when a library cannot be resolved on any
// search path.
var ErrLibraryNotFound = errors.New("nativelib: library not found")

// ErrClosed is returned when registering symbols against a closed library.
var ErrClosed = errors.New("nativelib: library closed")

// SymbolError reports a symbol that could not be registered.
type SymbolError struct {
	Library string
	Symbol  string
	Cause   error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("nativelib: %s has no usable symbol %q: %v", e.Library, e.Symbol, e.Cause)
}

func (e *SymbolError) Unwrap() error { return e.Cause }

// Library is an open shared library.
type Library struct {
	name   string
	path   string
	handle uintptr
}

// Open resolves and loads a library by base name ("nanoarrow" rather than
// "libnanoarrow.so"), trying the given soname versions first and the
// unversioned name last. RTLD_GLOBAL keeps cross-library references working
// when a producer splits its runtime across several objects.
func Open(name string, versions ...int) (*Library, error) {
	for _, dir := range SearchPaths() {
		for _, ver := range versions {
			if lib, err := OpenPath(filepath.Join(dir, platform.FormatLibraryName(name, ver))); err == nil {
				lib.name = name
				return lib, nil
			}
		}
		if lib, err := OpenPath(filepath.Join(dir, platform.FormatLibraryName(name, 0))); err == nil {
			lib.name = name
			return lib, nil
		}
	}

	// Bare names last, letting the system loader resolve them.
	for _, ver := range versions {
		if lib, err := OpenPath(platform.FormatLibraryName(name, ver)); err == nil {
			lib.name = name
			return lib, nil
		}
	}
	if lib, err := OpenPath(platform.FormatLibraryName(name, 0)); err == nil {
		lib.name = name
		return lib, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// OpenPath loads the library at an explicit path.
func OpenPath(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("nativelib: opening %s: %w", path, err)
	}
	return &Library{name: filepath.Base(path), path: path, handle: handle}, nil
}

// Name returns the base name the library was opened under.
func (l *Library) Name() string { return l.name }

// Path returns the path the library was opened from; empty when the system
// loader resolved a bare name.
func (l *Library) Path() string { return l.path }

// Handle returns the raw dlopen handle.
func (l *Library) Handle() uintptr { return l.handle }

// Func binds fptr, a pointer to a Go function variable, to the named symbol.
func (l *Library) Func(symbol string, fptr any) (err error) {
	if l.handle == 0 {
		return ErrClosed
	}
	// purego panics on unknown symbols and signature problems.
	defer func() {
		if r := recover(); r != nil {
			err = &SymbolError{Library: l.name, Symbol: symbol, Cause: fmt.Errorf("%v", r)}
		}
	}()
	purego.RegisterLibFunc(fptr, l.handle, symbol)
	return nil
}

// FillFunc binds the named symbol as a fill-style producer entry point, the
// void(struct ArrowSchema*) shape most C producers expose. The returned
// function passes the exported address through unchanged.
func (l *Library) FillFunc(symbol string) (func(addr uint64) error, error) {
	var fill func(uintptr)
	if err := l.Func(symbol, &fill); err != nil {
		return nil, err
	}
	return func(addr uint64) error {
		if addr == 0 {
			return errors.New("nativelib: zero structure address")
		}
		fill(uintptr(addr))
		return nil
	}, nil
}

// Close releases the dlopen handle. Symbols already bound through Func keep
// working only if the library stays mapped; close only when nothing bound
// from it will run again.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("nativelib: closing %s: %w", l.name, err)
	}
	return nil
}

// SearchPaths returns the directories Open probes, in order. ARROWCDATA_LIB_DIR
// entries come first, then the platform's loader path variable, then the
// usual install locations.
func SearchPaths() []string {
	var paths []string

	if env := os.Getenv(EnvLibDir); env != "" {
		paths = append(paths, filepath.SplitList(env)...)
	}

	switch runtime.GOOS {
	case "linux", "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
	}

	return paths
}
