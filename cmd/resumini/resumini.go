// Package resuminicmder builds the root resumini command.
package resuminicmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/resumini/cmd/resumini/ask"
	authcmder "github.com/papercomputeco/resumini/cmd/resumini/auth"
	configcmder "github.com/papercomputeco/resumini/cmd/resumini/config"
	initcmder "github.com/papercomputeco/resumini/cmd/resumini/init"
	scorecmder "github.com/papercomputeco/resumini/cmd/resumini/score"
	servecmder "github.com/papercomputeco/resumini/cmd/resumini/serve"
	versioncmder "github.com/papercomputeco/resumini/cmd/version"
)

const resuminiLongDesc string = `Resumini stores, scores and rewrites resumes.

Run the server and work with resumes using:
  resumini serve              Run the API server (with MCP at /mcp)
  resumini score <file>       Score a resume file locally
  resumini ask <question>     Ask a running server about stored resumes
  resumini init               Create a local .resumini/ directory
  resumini config             Manage persistent configuration
  resumini auth <provider>    Store a generator API key`

const resuminiShortDesc string = "Resumini - resume analysis server"

func NewResuminiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumini",
		Short: resuminiShortDesc,
		Long:  resuminiLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .resumini/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(scorecmder.NewScoreCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
