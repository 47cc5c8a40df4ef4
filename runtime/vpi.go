package runtime

import "sync"

// vpiInfo is the process-wide answer to vpi_get_vlog_info: the simulator
// identity plus the argv it was invoked with, mirroring the s_vpi_vlog_info
// struct a DPI/VPI shared library links against.
type vpiInfo struct {
	Product string
	Version string
	Argv    []string
}

var (
	vpiMu    sync.Mutex
	vpiState *vpiInfo
)

// SetVPIArgs records the CLI argv for vpi_get_vlog_info, called once by
// cmd/xsim before any DPI library is loaded.
func SetVPIArgs(version string, argv []string) {
	vpiMu.Lock()
	defer vpiMu.Unlock()
	vpiState = &vpiInfo{Product: "xsim", Version: version, Argv: argv}
}

// VPIInfo returns a copy of the current VPI info block, or product "xsim"
// with an empty version and no argv if SetVPIArgs was never called.
func VPIInfo() (Product, Version string, Argv []string) {
	vpiMu.Lock()
	defer vpiMu.Unlock()
	if vpiState == nil {
		return "xsim", "", nil
	}
	return vpiState.Product, vpiState.Version, append([]string(nil), vpiState.Argv...)
}
