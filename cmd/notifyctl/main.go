package main

import (
	"fmt"
	"os"

	"github.com/kursadbilgin/bill-notifier/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "notifyctl:", err)
		os.Exit(1)
	}
}
