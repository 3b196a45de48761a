package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/sparkload/internal/cli"
	"github.com/vvka-141/sparkload/pkg/sparkload"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(sparkload.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(sparkload.ExitCodeForError(err))
	}
}
