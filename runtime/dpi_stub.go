//go:build !cgo

package runtime

// noDPIResolver is returned for builds without cgo: Open and Resolve
// report ErrDPIUnavailable and Close is a no-op, so a pure-Go
// build of this module still runs any design that doesn't call
// $dpi_import.
type noDPIResolver struct{}

// NewDPIResolver returns the no-cgo stub resolver.
func NewDPIResolver() DPIResolver {
	return noDPIResolver{}
}

func (noDPIResolver) Open(string) error                { return ErrDPIUnavailable }
func (noDPIResolver) Resolve(string) (DPIFunc, error) { return nil, ErrDPIUnavailable }
func (noDPIResolver) Close() error                     { return nil }
