package main

import (
	"fmt"
	"os"

	"evm-swap/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the environment and config file can carry everything
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
