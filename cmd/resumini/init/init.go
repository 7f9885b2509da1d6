// Package initcmder provides the init command for initializing a local
// .resumini directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/resumini/pkg/cliui"
	"github.com/papercomputeco/resumini/pkg/config"
)

const (
	dirName    = ".resumini"
	configFile = "config.toml"

	remoteFetchTimeout = 15 * time.Second
)

const initLongDesc string = `Initialize a new .resumini/ directory in the current working directory.

Creates a local .resumini/ directory that takes precedence over the default
~/.resumini/ directory for configuration and local vector stores, and writes
a config.toml with default values when none exists.

Use --preset to start from a generator preset (gemini, openai, anthropic,
ollama, offline) or from a config.toml served at an http(s) URL. A preset
overwrites any existing config.toml.

Examples:
  resumini init
  resumini init --preset ollama
  resumini init --preset https://example.com/resumini/config.toml`

const initShortDesc string = "Initialize a local .resumini/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "",
		fmt.Sprintf("Config preset name (%s) or http(s) URL of a config.toml", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func (c *initCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .resumini directory: %w", err)
	}

	var cfg *config.Config
	switch {
	case c.preset == "":
		_, err := os.Stat(filepath.Join(dir, configFile))
		if err == nil {
			fmt.Printf("Already initialized: %s\n", dir)
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
		cfg = config.NewDefaultConfig()

	case isURL(c.preset):
		cfg, err = fetchRemoteConfig(ctx, c.preset)
		if err != nil {
			return err
		}

	default:
		cfg, err = config.PresetConfig(c.preset)
		if err != nil {
			return err
		}
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("%s Initialized .resumini directory: %s\n", cliui.SuccessMark, dir)
	if c.preset != "" {
		fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("preset:"), cliui.ValueStyle.Render(c.preset))
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating remote config request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
