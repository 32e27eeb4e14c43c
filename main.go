package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"devserve/cmd"
	"devserve/internal/server"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode は起動エラーの種類に応じた終了コードを返す
func exitCode(err error) int {
	var inUse *server.PortInUseError
	if errors.As(err, &inUse) {
		return 2
	}
	return 1
}
