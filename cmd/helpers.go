package cmd

import (
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/app"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/state"
)

// loadState reads the host state dump or returns a StateError.
func loadState(path string) (*state.State, error) {
	st, err := app.Default.LoadState(path)
	if err != nil {
		return nil, errors.StateError(err.Error(), err)
	}
	return st, nil
}
