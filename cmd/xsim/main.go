// Command xsim elaborates a design tree and runs it to completion, the
// compile-then-run entry point spec.md §6 describes: flags map onto the
// same load/lint/elaborate/run pipeline the simulator library exposes,
// so everything past flag parsing is a thin driver over design, diag,
// elaborate and runtime.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/elaborate"
	"github.com/veridian-silicon/xsim/runtime"
	"github.com/veridian-silicon/xsim/value"
)

// Exit codes, spec.md §6.
const (
	exitSuccess       = 0
	exitDiagnostics   = 1
	exitInputFile     = 2
	exitNoInput       = 3
	exitInternalError = 4
	exitException     = 5
)

const version = "xsim 0.1"

func main() {
	var (
		top       = flag.String("top", "", "select top module when multiple candidates exist")
		optLevel  = flag.Int("O", 0, "optimisation level 0-3, forwarded to the backend compiler")
		run       = flag.Bool("R", false, "execute the built binary immediately")
		twoState  = flag.Bool("two-state", false, "compile with the 2-state value model")
		svLib     = flag.String("sv-lib", "", "DPI shared object")
		vpiLib    = flag.String("vpi-lib", "", "VPI shared object; must export vlog_startup_routines")
		outName   = flag.String("o", "xsim.out", "output binary name")
		errLimit  = flag.Int("error-limit", 20, "diagnostics reported before elaboration aborts")
	)
	flag.BoolVar(run, "run", *run, "alias of -R")

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	atexit.Exit(runMain(top, optLevel, run, twoState, svLib, vpiLib, outName, errLimit))
}

// loadDPI opens the --sv-lib shared object against the given resolver.
// Factored out of runMain so the open/error-mapping logic can be driven
// against a mock DPIResolver in tests without touching the filesystem.
func loadDPI(resolver runtime.DPIResolver, svLib string) error {
	return resolver.Open(svLib)
}

func runMain(top *string, optLevel *int, run, twoState *bool, svLib, vpiLib, outName *string, errLimit *int) int {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "xsim: no input file")
		return exitNoInput
	}
	inputPath := args[0]

	runtime.SetVPIArgs(version, os.Args[1:])

	tree, err := design.LoadTreeFromYAML(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xsim: %v\n", err)
		return exitInputFile
	}

	if *top != "" {
		if _, ok := tree.Modules[*top]; !ok {
			slog.Warn("requested top module not found, falling back to first candidate", "requested", *top, "picked", tree.Top)
		} else {
			tree.Top = *top
		}
	}

	eng := elaborate.Lint(tree, *errLimit)
	if eng.HasErrors() {
		for _, d := range eng.All() {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return exitDiagnostics
	}

	im, err := elaborate.NewModuleAnalyzer(tree).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "xsim: elaboration failed: %v\n", err)
		return exitDiagnostics
	}

	mode := value.FourState
	if *twoState {
		mode = value.TwoState
	}

	dpi := runtime.NewDPIResolver()
	if *svLib != "" {
		if err := loadDPI(dpi, *svLib); err != nil {
			fmt.Fprintf(os.Stderr, "xsim: %v\n", err)
			return exitInputFile
		}
		defer dpi.Close()
	}
	if *vpiLib != "" {
		slog.Info("vpi library accepted but not loaded at elaboration time", "path", *vpiLib)
	}

	slog.Info("elaboration complete", "top", tree.Top, "two_state", *twoState, "opt_level", *optLevel, "out", *outName)

	if !*run {
		return exitSuccess
	}

	sched := runtime.NewScheduler()
	mod := runtime.BuildModule(sched, im, tree.Top, mode)

	if err := sched.Run(mod); err != nil {
		fmt.Fprintf(os.Stderr, "xsim: runtime failure: %v\n", err)
		return exitInternalError
	}

	slog.Info("simulation finished", "finish_code", sched.FinishCode(), "time", sched.CurrentTime())
	return exitSuccess
}
