package cli

import (
	"github.com/spf13/cobra"
)

// PathResult is the output of the path command.
type PathResult struct {
	Path   string `json:"path"`
	Driver string `json:"driver"`
}

func (r PathResult) String() string {
	return r.Path
}

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "path",
		Short:         "Print the database location",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := rootOpts.resolveDBPath()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve database path", err)
			}
			return rootOpts.formatter(cmd).Success(PathResult{Path: path, Driver: rootOpts.Driver})
		},
	}
}
