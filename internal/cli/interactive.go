package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/auth"
	"github.com/idilsaglam/mythings/internal/server"
	"github.com/idilsaglam/mythings/internal/tui"
	"github.com/idilsaglam/mythings/internal/ui"
)

func doTUI(ap *app.App) int {
	if err := tui.Run(ap); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return exitFor(ap, "bye")
}

func doServe(ap *app.App, args []string) int {
	fs := newFlags("serve")
	addr := fs.String("addr", ap.Config.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ti, err := auth.Store{Path: ap.Config.CredentialsPath()}.Get()
	if err != nil {
		ui.Fail("token: " + err.Error())
		return 1
	}
	token := ""
	if ti != nil {
		token = ti.Token
	}

	srv := server.New(ap, server.Options{Token: token, FrontURL: ap.Config.FrontURL})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.OK("serving " + ap.Config.Dir + " on " + *addr)
	if err := srv.Run(ctx, *addr); err != nil {
		ui.Fail("serve: " + err.Error())
		return 1
	}
	return 0
}
