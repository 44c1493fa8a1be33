package cmdflags

import (
	"github.com/urfave/cli/v2"
)

func DataDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "data-dir",
		Aliases:     []string{"d"},
		Usage:       "Directory that holds users.json",
		Value:       *out,
		Destination: out,
		EnvVars:     []string{"ATELIER_DATA_DIR"},
	}
}

func ContentDir(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "content-dir",
		Aliases:     []string{"c"},
		Usage:       "Root directory of the per-type content directories",
		Value:       *out,
		Destination: out,
		EnvVars:     []string{"ATELIER_CONTENT_DIR"},
	}
}
