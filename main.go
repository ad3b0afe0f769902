package main

import (
	"fmt"
	"os"

	"github.com/RoystonS/changesets/cmd/cli"
)

const (
	successExitCodeConstant = 0
	failureExitCodeConstant = 1
)

func main() {
	os.Exit(run())
}

// run executes the changesets CLI and reports the process exit code, keeping
// os.Exit out of the path deferred functions would need to travel.
func run() int {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintln(os.Stderr, executionError)
		return failureExitCodeConstant
	}
	return successExitCodeConstant
}
