package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rohits-web03/webfile/internal/config"
)

type VersionInfo struct {
	Version string
	Commit  string
}

// state is shared by all subcommands of one root command.
type state struct {
	path string
	v    *viper.Viper
}

func (s *state) load() (*config.Config, error) {
	return config.Load(s.v, s.path)
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	s := &state{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "webfile",
		Short:         "Webfile direct upload server",
		Long:          "Hands out direct upload parameters for S3 compatible storage and accepts signed uploads to local filesystems.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&s.path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = s.v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(newServeCommand(s))
	cmd.AddCommand(newConfigCommand(s))
	cmd.AddCommand(newTargetCommand(s))

	return cmd
}
