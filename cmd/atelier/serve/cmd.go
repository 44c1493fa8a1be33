package serve

import (
	"atelier/auth"
	authapi "atelier/auth/api"
	contentapi "atelier/content/api"
	"atelier/internal/cmdflags"
	"atelier/internal/httpserver"

	"github.com/julienschmidt/httprouter"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7070"
	dataDir := "./data"
	contentDir := "./src/content"
	insecureCookie := false
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the admin HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind the admin server",
				Value:       bindAddr,
				Destination: &bindAddr,
				EnvVars:     []string{"ATELIER_BIND"},
			},
			cmdflags.DataDir(&dataDir),
			cmdflags.ContentDir(&contentDir),
			&cli.BoolFlag{
				Name:        "insecure-cookie",
				Usage:       "Issue session cookies without the Secure attribute (plain HTTP development only)",
				Value:       insecureCookie,
				Destination: &insecureCookie,
				EnvVars:     []string{"ATELIER_INSECURE_COOKIE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			sessions := auth.NewRegistry(auth.SessionTTL)
			router := httprouter.New()
			authapi.NewHandler(dataDir, sessions, insecureCookie).Register(router)
			contentapi.NewHandler(contentDir, sessions).Register(router)
			realm := authapi.NewRealm(sessions)
			return httpserver.Serve(ctx.Context, bindAddr, realm.Protect(router))
		},
	}
}
