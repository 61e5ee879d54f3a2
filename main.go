package main

import (
	"fmt"
	"os"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/cmd"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists; MOLDIQ_* variables set there override
	// the config file.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment variables from .env file")
	}
}

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
