package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-assistant/internal/conversation"
	"github.com/ziadkadry99/doc-assistant/internal/handlers"
	"github.com/ziadkadry99/doc-assistant/internal/progress"
	"github.com/ziadkadry99/doc-assistant/internal/router"
)

var (
	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0"))
	sourceStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	badgeColors = map[string]lipgloss.Color{
		handlers.TypeRAG:            lipgloss.Color("12"),
		handlers.TypeSummarizer:     lipgloss.Color("13"),
		handlers.TypeFormatter:      lipgloss.Color("11"),
		handlers.TypeConversational: lipgloss.Color("10"),
		router.TypeError:            lipgloss.Color("9"),
	}
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your documents interactively",
	Long: `Starts an interactive session. Earlier turns are sent along with each
message so follow-ups like "make that an email" work. Type /reset to
forget the conversation and /exit to quit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setupAssistant(ctx, progress.NewReporter())
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Chatting with %d indexed chunks. Type /exit to quit.\n\n", a.store.Count())

	var history []conversation.Turn
	for {
		prompt := promptui.Prompt{Label: "You"}
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			history = nil
			fmt.Println("Conversation cleared.")
			continue
		}

		resp := a.router.Process(ctx, line, history)
		printChatResponse(resp)

		if resp.Type != router.TypeError {
			history = append(history,
				conversation.Turn{Role: conversation.RoleUser, Content: line},
				conversation.Turn{Role: conversation.RoleAssistant, Content: resp.Output},
			)
		}
	}
}

func printChatResponse(resp router.Response) {
	color, ok := badgeColors[resp.Type]
	if !ok {
		color = lipgloss.Color("7")
	}
	fmt.Println(badgeStyle.Background(color).Render(resp.Type))

	if resp.Type == router.TypeError {
		fmt.Println(errorStyle.Render(resp.Output))
		fmt.Println()
		return
	}

	body, sources, ok := router.SplitSource(resp.Output)
	fmt.Println(body)
	if ok {
		fmt.Println(sourceStyle.Render("Sources: " + strings.Join(sources, ", ")))
	}
	fmt.Println()
}
