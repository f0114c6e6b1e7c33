/*
Package main provides the mailctl command line entry point.
*/
package main

import (
	"os"

	"github.com/ArowuTest/zithara-mail-backend/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
