package main

import (
	"context"
	"os"

	"dreamdesign/internal/admincmd"

	"github.com/charmbracelet/fang"
)

const version = "0.1.0"

func main() {
	root := admincmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
