package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/table-reservation/internal/cli"
)

func main() {
	_ = godotenv.Load() // .env is optional
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
