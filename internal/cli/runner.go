package cli

import (
	"fmt"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/config"
	"github.com/idilsaglam/mythings/internal/ui"
)

// Options come from root flags and override the environment.
type Options struct {
	Dir   string
	Theme string
	Color string // "auto" | "always" | "never"
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	}

	switch opt.Color {
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	}

	cfg := config.Load()
	if opt.Dir != "" {
		cfg.WithDir(opt.Dir)
	}
	cfg.Theme = opt.Theme

	switch cmd {
	case "ls", "add", "edit", "rm", "show", "wipe", "gc",
		"label", "cat", "brand", "theme", "default", "tui", "serve", "token":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Stderr)
		PrintHelp()
		return 2
	}

	if cmd == "token" {
		return doToken(cfg, a)
	}

	ap, err := app.Open(cfg)
	if err != nil {
		ui.Fail("open: " + err.Error())
		return 1
	}
	defer ap.Close()
	ui.SetTheme(ap.Theme())

	switch cmd {
	case "ls":
		return doList(ap, a)
	case "add":
		return doAdd(ap, a)
	case "edit":
		return doEdit(ap, a)
	case "rm":
		return doRemove(ap, a)
	case "show":
		return doShow(ap, a)
	case "label":
		return doLabel(ap, a)
	case "wipe":
		return doWipe(ap, a)
	case "gc":
		return doGC(ap)
	case "cat":
		return doCategory(ap, a)
	case "brand":
		return doBrand(ap, a)
	case "theme":
		return doTheme(ap, a)
	case "default":
		return doDefault(ap, a)
	case "tui":
		return doTUI(ap)
	default: // serve
		return doServe(ap, a)
	}
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout, `mythings - an inventory of the things you own

Usage:
  mythings [-dir path] [-theme name] [-color auto|always|never] <subcommand> [args]

Things:
  ls [-c category] [-q text]         List things, filtered by category and/or text
  add -name -brand -category -price -image <file>
                                     Add a thing (image is required)
  edit <id|index> [-name ...] [-image <file>]
                                     Edit a thing; omitted flags keep their value
  rm <id|index>                      Remove a thing (and its unused image)
  show <id|index>                    Show one thing with its image details
  label <id|index> [-o file] [-size px]
                                     Write a QR label PNG for a thing
  wipe -yes                          Delete all things
  gc                                 Remove image files no thing uses

Reference lists:
  cat ls | add <name> [color] | rm <index> | edit <index> <name> [color]
  brand ls | add <name> | rm <name>

Settings:
  theme [classic|neon|mono]          Show or set the theme
  default [category]                 Show or set the category the browser opens on
  token status | set [value] | clear API token for serve

Interactive:
  tui                                Browse, search and edit in the terminal
  serve [-addr :9000]                Run the local HTTP API

Examples:
  mythings add -name Jacket -brand Uniqlo -category Clothes -price 59.99 -image ~/jacket.jpg
  mythings ls -c Clothes -q uni
  mythings cat add Books teal
`)
}

// exitFor maps a persistence status to an exit code after a mutation that
// already succeeded in memory.
func exitFor(ap *app.App, okMsg string) int {
	if err := ap.Status(); err != nil {
		ui.Fail("not saved to disk: " + err.Error())
		return 1
	}
	ui.OK(okMsg)
	return 0
}
