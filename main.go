package main

import (
	"os"

	"github.com/scan-io-git/sariflint/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
