package main

import (
	"fmt"
	"os"
)

const appName = "ngc-protoview"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleErr.Render("Error:"), err.Error())
		os.Exit(1)
	}
}
