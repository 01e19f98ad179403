package main

import (
	"fmt"
	"os"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
