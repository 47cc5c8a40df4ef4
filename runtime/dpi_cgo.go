//go:build cgo

package runtime

/*
#include <dlfcn.h>
#include <stdlib.h>

typedef uint64_t (*dpi_fn)(uint64_t *args, int nargs);

static uint64_t dpi_call(dpi_fn fn, uint64_t *args, int nargs) {
	return fn(args, nargs);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// cgoDPIResolver loads a --sv-lib shared object with dlopen and resolves
// $dpi_import/$dpi_export symbols with dlsym, the standard mechanism any
// SystemVerilog simulator's DPI-C layer uses to reach a foreign-compiled
// library at run time.
type cgoDPIResolver struct {
	mu     sync.Mutex
	handle unsafe.Pointer
}

// NewDPIResolver returns the cgo-backed resolver.
func NewDPIResolver() DPIResolver {
	return &cgoDPIResolver{}
}

func (r *cgoDPIResolver) Open(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	h := C.dlopen(cpath, C.RTLD_NOW)
	if h == nil {
		return fmt.Errorf("runtime: dlopen %s: %s", path, C.GoString(C.dlerror()))
	}
	r.handle = h
	return nil
}

func (r *cgoDPIResolver) Resolve(name string) (DPIFunc, error) {
	r.mu.Lock()
	h := r.handle
	r.mu.Unlock()
	if h == nil {
		return nil, ErrDPIUnavailable
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	sym := C.dlsym(h, cname)
	if sym == nil {
		return nil, fmt.Errorf("runtime: dlsym %s: %s", name, C.GoString(C.dlerror()))
	}
	fn := C.dpi_fn(sym)

	return func(args []uint64) (uint64, error) {
		if len(args) == 0 {
			return uint64(C.dpi_call(fn, nil, 0)), nil
		}
		cargs := (*C.uint64_t)(unsafe.Pointer(&args[0]))
		return uint64(C.dpi_call(fn, cargs, C.int(len(args)))), nil
	}, nil
}

func (r *cgoDPIResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == nil {
		return nil
	}
	C.dlclose(r.handle)
	r.handle = nil
	return nil
}
