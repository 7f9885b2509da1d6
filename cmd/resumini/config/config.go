// Package configcmder provides the config command for managing persistent
// resumini configuration stored in the .resumini/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent resumini configuration.

Configuration is stored as config.toml in the .resumini/ directory and provides
default values for command flags. CLI flags and RESUMINI_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen, api.request_timeout, api.max_upload_mb, client.api_target,
  vector_store.provider, vector_store.target, vector_store.max_vectors,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  generator.provider, generator.target, generator.model, generator.retries,
  chunking.size, chunking.overlap, retrieval.top_k,
  scoring.keywords, scoring.sections, scoring.min_words, scoring.max_words,
  scoring.length_fallback, renderer.latex_command, renderer.timeout,
  artifacts.provider, artifacts.target, artifacts.endpoint, artifacts.region,
  events.provider, events.target, events.topic, inbox.dir, inbox.workers

Use subcommands to get, set, or list configuration values:
  resumini config set <key> <value>    Set a configuration value
  resumini config get <key>            Get a configuration value
  resumini config list                 List all configuration values

Examples:
  resumini config set generator.provider ollama
  resumini config set scoring.keywords "go,kubernetes,sql"
  resumini config get generator.model
  resumini config list`

const configShortDesc string = "Manage persistent resumini configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
