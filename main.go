package main

import (
	"os"

	"github.com/taoky/elblog/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
