package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/sys/unix"

	"cadenza/internal/command"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	root := newRootCommand()
	res, err := root.Dispatch(args[1:], filepath.Base(args[0]))
	if err != nil {
		var req *command.ExitRequest
		if errors.As(err, &req) {
			fmt.Println(req.Output)
			return req.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer cancel()
	return res.Command.Run(ctx, res)
}
