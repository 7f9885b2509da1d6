// Package askcmder provides the ask command for questioning stored resumes
// through a running resumini API server.
package askcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/resumini/api"
	"github.com/papercomputeco/resumini/pkg/cliui"
	"github.com/papercomputeco/resumini/pkg/config"
)

type askCommander struct {
	flags config.FlagSet

	question  string
	apiTarget string
	topK      int
	raw       bool

	out   io.Writer
	viper *viper.Viper
}

var askFlags = []string{
	config.FlagAPITarget,
	config.FlagTopK,
}

const askLongDesc string = `Ask a question about the stored resumes.

The question is sent to the /chat endpoint of a running resumini API server,
which retrieves the closest resume chunks and answers from them. The answer
is rendered as markdown unless --raw is set.

Examples:
  resumini ask "What programming languages does the candidate know?"
  resumini ask "Summarize the work history" --top-k 8
  resumini ask "Which degree is listed?" --api-target http://localhost:9000 --raw`

const askShortDesc string = "Ask a question about stored resumes"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{flags: config.Flags, out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, cmder.flags, askFlags)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]
			cmder.apiTarget = cmder.viper.GetString("client.api_target")
			cmder.topK = cmder.viper.GetInt("retrieval.top_k")
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddIntFlag(cmd, cmder.flags, config.FlagTopK, &cmder.topK)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the answer without markdown rendering")

	return cmd
}

func (c *askCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	answer, err := ChatAPI(ctx, c.apiTarget, c.question, c.topK)
	if err != nil {
		return err
	}

	if c.raw {
		fmt.Fprintln(c.out, answer)
		return nil
	}

	rendered, err := cliui.RenderMarkdown(answer)
	if err != nil {
		fmt.Fprintln(c.out, answer)
		return nil //nolint:nilerr // fall back to the plain answer
	}
	fmt.Fprint(c.out, rendered)
	return nil
}

// ChatAPI posts question to the /chat endpoint at apiTarget and returns the
// answer.
func ChatAPI(ctx context.Context, apiTarget, question string, topK int) (string, error) {
	chatURL, err := url.Parse(apiTarget)
	if err != nil {
		return "", fmt.Errorf("invalid API target URL: %w", err)
	}
	chatURL.Path = strings.TrimSuffix(chatURL.Path, "/") + "/chat"

	body, err := json.Marshal(api.ChatRequest{Query: question, TopK: topK})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to connect to resumini API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("chat request failed (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("chat request failed (HTTP %d): %s", resp.StatusCode, string(data))
	}

	var out api.ReportResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	return out.Report, nil
}
