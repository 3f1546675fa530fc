package main

import (
	"os"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/cmd"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
