package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parishweb/parishadmin/internal/caption"
	"github.com/parishweb/parishadmin/internal/caption/claude"
	"github.com/parishweb/parishadmin/internal/caption/ollama"
	"github.com/parishweb/parishadmin/internal/config"
	"github.com/parishweb/parishadmin/internal/gateway"
	"github.com/parishweb/parishadmin/internal/logging"
	"github.com/parishweb/parishadmin/internal/store"
	"github.com/parishweb/parishadmin/internal/syncer"
)

var rootCmd = &cobra.Command{
	Use:   "parishadmin",
	Short: "Admin console for the parish website backend",
	Long: strings.TrimSpace(`
Manage the parish website's photo gallery, announcements, news and events.
The serve subcommand runs the backing REST API; the other subcommands talk
to a running server.
	`),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("yes", false, "Skip confirmation prompts")
}

// setup loads configuration and installs the process logger. Console
// subcommands default to human-readable text, serve to JSON; LOG_FORMAT
// overrides either.
func setup(format string) (*config.Config, *slog.Logger, func()) {
	cfg := config.Load()
	if cfg.LogFormat != "" {
		format = cfg.LogFormat
	}
	logger, cleanup, err := logging.New(cfg.LogLevel, format, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return cfg, logger, cleanup
}

// newController wires the console session: an empty in-memory store, the
// HTTP gateway, a terminal confirmation prompt and the configured caption
// backend.
func newController(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *syncer.Controller {
	client := gateway.NewClient(cfg.ServerURL, nil, logger)

	confirm := terminalConfirm
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirm = func(string) bool { return true }
	}

	return syncer.NewController(
		store.New(),
		client,
		confirm,
		consoleNotifier{},
		newCaptionSuggester(cfg, logger),
		logger,
	)
}

func terminalConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// consoleNotifier prints operation outcomes to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Success(message string) {
	fmt.Println(message)
}

func (consoleNotifier) Failure(message string) {
	fmt.Fprintln(os.Stderr, "error: "+message)
}

func newCaptionSuggester(cfg *config.Config, logger *slog.Logger) caption.Suggester {
	switch cfg.CaptionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when CAPTION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude caption backend")
		return claude.NewSuggester(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama caption backend", "model", cfg.OllamaModel)
		return ollama.NewSuggester(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}
