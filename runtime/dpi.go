package runtime

import "errors"

// ErrDPIUnavailable is returned by a DPIResolver built without cgo
// support, or by the cgo resolver's Resolve when no --sv-lib has been
// opened. A symbol missing from an opened library is reported as a
// dlsym error instead.
var ErrDPIUnavailable = errors.New("runtime: DPI import resolution unavailable in this build")

// DPIFunc is a resolved DPI import, callable with already-marshaled
// argument/return buffers. The marshaling format (aval/bval planes packed
// per the reference standard's DPI open-array convention) is the caller's
// responsibility; DPIFunc only owns the native call boundary.
type DPIFunc func(args []uint64) (uint64, error)

// DPIResolver loads a --sv-lib shared object and resolves import/export
// function pointers by name. The cgo build loads real .so/.dylib files via
// dlopen/dlsym; the no-cgo build always reports ErrDPIUnavailable, so a
// pure-Go build of this module still compiles and runs designs that don't
// use $dpi_import.
type DPIResolver interface {
	Open(path string) error
	Resolve(name string) (DPIFunc, error)
	Close() error
}
