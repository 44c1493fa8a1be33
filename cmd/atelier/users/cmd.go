package users

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"atelier/auth"
	"atelier/internal/cmdflags"

	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	dataDir := "./data"
	return &cli.Command{
		Name:  "users",
		Usage: "Manage the users allowed into the admin area",
		Flags: []cli.Flag{
			cmdflags.DataDir(&dataDir),
		},
		Subcommands: []*cli.Command{
			addCmd(&dataDir),
			listCmd(&dataDir),
		},
	}
}

func addCmd(dataDir *string) *cli.Command {
	var username string
	var role string
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "Role tag for the new user",
				Value:       auth.RoleAdmin,
				Destination: &role,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			users, err := auth.LoadUsers(*dataDir)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if auth.FindUser(users, username) != nil {
				return fmt.Errorf("user %v already exists", username)
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			users = append(users, auth.User{
				Username:  username,
				Password:  hash,
				Role:      role,
				CreatedAt: time.Now().UTC().Format(time.RFC3339),
			})
			if err := os.MkdirAll(*dataDir, 0755); err != nil {
				return fmt.Errorf("unable to create data directory %v, cause %w", *dataDir, err)
			}
			return auth.SaveUsers(*dataDir, users)
		},
	}
}

func listCmd(dataDir *string) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the registered users (never their hashes)",
		Action: func(ctx *cli.Context) error {
			users, err := auth.LoadUsers(*dataDir)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%v\t%v\t%v\n", u.Username, u.Role, u.CreatedAt)
			}
			return nil
		},
	}
}
