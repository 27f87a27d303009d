package main

import (
	"fmt"
	"os"

	"github.com/academix/records/internal/ctl"
)

func main() {
	if err := ctl.App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
