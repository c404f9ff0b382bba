package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/mythings/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	dir := flag.String("dir", "", "data directory (default $MYTHINGS_DIR or ~/.mythings)")
	theme := flag.String("theme", "", "override the saved theme for this run")
	color := flag.String("color", "auto", "colorize output: auto|always|never")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Dir:   *dir,
		Theme: *theme,
		Color: *color,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
