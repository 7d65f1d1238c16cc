package version

import (
	"fmt"

	"github.com/localizedstringkit/lsk/internal/constants"
	"github.com/localizedstringkit/lsk/internal/environment"
	"github.com/localizedstringkit/lsk/internal/i18n"

	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	versionCmd := &cobra.Command{
		Use: "version",
		Short: i18n.T("cmd.version.short", i18n.Tvars{
			Data: &i18n.TData{"appName": constants.AppName},
		}),
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), environment.AppVersion())
		},
	}

	return versionCmd
}
