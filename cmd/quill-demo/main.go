// Command quill-demo hosts two editing sessions side by side in the
// terminal.
package main

import (
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("quill-demo: " + err.Error() + "\n")
		return 1
	}
	return 0
}
