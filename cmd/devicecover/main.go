package main

import (
	"os"

	"devicecover/cmd/devicecover/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
