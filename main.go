package main

import (
	"fmt"
	"os"

	"github.com/km-arc/go-injector/app/console"
)

func main() {
	if err := console.New().Exec(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
