// Command s3stream streams files and standard input into an S3-compatible bucket.
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		if stderrors.Is(err, errObjectAbsent) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.CodeOf(err), err)
		os.Exit(2)
	}
}
