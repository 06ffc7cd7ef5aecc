package main

import (
	"os"

	"finance-app-go/cmd/finance-admin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
