// Command juricasync runs the court of appeal decision collection jobs.
package main

import (
	"os"

	"github.com/custodia-labs/juricasync/internal/adapters/driving/cli"
	"github.com/custodia-labs/juricasync/internal/logger"
)

func main() {
	cli.SetBootstrap(bootstrap)

	err := cli.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
