package runtime

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/veridian-silicon/xsim/value"
)

// userFDBase is the first file descriptor $fopen hands back to user code,
// matching the reference standard's high-bit MCD/file-descriptor split: bit
// 31 marks a real (non-MCD) handle, so user fds start above the 32 builtin
// multichannel-descriptor bits.
const userFDBase = 1 << 31

// displayState owns every simulator-wide output concern: the $display
// family's %m/%t preprocessing, the $fopen/$fclose file-handle table, and
// the single lock serializing writes to stdout/stderr the same way
// core/util.go's PrintState holds one table-writer lock per dump.
type displayState struct {
	coutLock sync.Mutex

	handlesMu sync.Mutex
	handles   map[uint32]*os.File
	nextFD    uint32
}

func newDisplayState() *displayState {
	return &displayState{handles: make(map[uint32]*os.File)}
}

// Display implements $display: it substitutes %m with hierPath and %t
// with a plain %d (no timescale table in this implementation), then
// formats args in order and always appends a newline.
func (d *displayState) Display(hierPath, format string, args []value.Value) {
	line := d.render(hierPath, format, args)
	d.coutLock.Lock()
	defer d.coutLock.Unlock()
	fmt.Fprintln(os.Stdout, line)
}

// Printf writes a scheduler-level message (e.g. the $finish banner)
// straight to stdout under the same lock as $display output, so the two
// never interleave mid-line.
func (d *displayState) Printf(format string, args ...interface{}) {
	d.coutLock.Lock()
	defer d.coutLock.Unlock()
	fmt.Fprintf(os.Stdout, format, args...)
}

func (d *displayState) render(hierPath, format string, args []value.Value) string {
	format = strings.ReplaceAll(format, "%m", hierPath)
	format = strings.ReplaceAll(format, "%t", "%d")

	var b strings.Builder
	argi := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		verb := format[i+1]
		switch verb {
		case 'b', 'd', 'h', 'o', 'v':
			if argi < len(args) {
				b.WriteString(args[argi].String())
				argi++
			}
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// openFile assigns the next user file descriptor to a real *os.File opened
// for append/create, the way $fopen's single-channel mode is specified.
func (d *displayState) openFile(path string) uint32 {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0
	}
	d.handlesMu.Lock()
	defer d.handlesMu.Unlock()
	fd := userFDBase | d.nextFD
	d.nextFD++
	d.handles[fd] = f
	return fd
}

// closeFile implements $fclose.
func (d *displayState) closeFile(fd uint32) {
	d.handlesMu.Lock()
	f, ok := d.handles[fd]
	if ok {
		delete(d.handles, fd)
	}
	d.handlesMu.Unlock()
	if ok {
		f.Close()
	}
}

// writeFile implements $fdisplay/$fwrite against a previously opened
// handle, also writing to stdout under cout_lock when fd is a
// multichannel descriptor (bit 31 clear) with bit 0, the standard output
// channel, set.
func (d *displayState) writeFile(fd uint32, hierPath, format string, args []value.Value) {
	line := d.render(hierPath, format, args)

	if fd&userFDBase == 0 && fd&1 != 0 {
		d.coutLock.Lock()
		fmt.Fprintln(os.Stdout, line)
		d.coutLock.Unlock()
	}

	d.handlesMu.Lock()
	f, ok := d.handles[fd]
	d.handlesMu.Unlock()
	if ok {
		fmt.Fprintln(f, line)
	}
}
