package main

import (
	"context"
	"io"
	"os"

	"qrit/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	err := cli.Execute(context.Background(), args, cli.Streams{In: in, Out: out, Err: errOut})
	return cli.ExitCode(err)
}
