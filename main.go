package main

import (
	"os"

	"github.com/harrisonrobin/todoist-organizer/pkg/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
