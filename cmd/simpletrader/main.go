package main

import (
	"os"

	"github.com/Adi-UA/SimpleTrader/cmd/simpletrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
