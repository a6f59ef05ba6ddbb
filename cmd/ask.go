package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/progress"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the documents",
	Long: `Answers one message and exits. With --prompts, runs every prompt in a
JSON object of {"name": "prompt"} pairs in name order instead.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if prompts, _ := cmd.Flags().GetString("prompts"); prompts != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("prompts", "", "path to a JSON file of named prompts to run in batch")
	askCmd.Flags().Bool("json", false, "output responses as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	promptsFile, _ := cmd.Flags().GetString("prompts")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var prompts []namedPrompt
	if promptsFile != "" {
		var err error
		if prompts, err = loadPrompts(promptsFile); err != nil {
			return err
		}
	} else {
		prompts = []namedPrompt{{Prompt: strings.Join(args, " ")}}
	}

	a, err := setupAssistant(ctx, progress.NewReporter())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, p := range prompts {
		resp := a.router.Process(ctx, p.Prompt, nil)
		if jsonOutput {
			if err := printResponseJSON(p.Name, resp); err != nil {
				return err
			}
			continue
		}
		if p.Name != "" {
			fmt.Printf("\n--- Running Prompt: %s ---\n", p.Name)
			fmt.Printf("*Final Response*:\n%s\n\n", resp.Output)
			continue
		}
		fmt.Println(resp.Output)
	}
	return nil
}

type namedPrompt struct {
	Name   string
	Prompt string
}

// loadPrompts reads a JSON object of named prompts, sorted by name.
func loadPrompts(path string) ([]namedPrompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompts: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing prompts %s: %w", path, err)
	}
	out := make([]namedPrompt, 0, len(raw))
	for name, prompt := range raw {
		out = append(out, namedPrompt{Name: name, Prompt: prompt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type askResultJSON struct {
	Name string `json:"name,omitempty"`
	router.Response
}

func printResponseJSON(name string, resp router.Response) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(askResultJSON{Name: name, Response: resp})
}
