package runtime_test

import (
	"io"
	"os"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, the way $display output is asserted against
// in the end-to-end scenarios below.
func captureStdout(fn func()) string {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	orig := os.Stdout
	os.Stdout = w

	fn()

	os.Stdout = orig
	w.Close()
	out, _ := io.ReadAll(r)
	r.Close()
	return string(out)
}
