package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "phrasesearch",
	Short: "Fuzzy phrase search over a zipped text corpus",
	Long: `phrasesearch extracts text files from a zip archive, keeps an inverted
index of every word in sync with the archive, and answers phrase queries with
fuzzy correction of misspelled words.

Examples:
  phrasesearch index
  phrasesearch search "quick brown fox"
  phrasesearch repl
  phrasesearch serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			loaded.Logging.Level = logLevel
		}
		logger.Setup(loaded.Logging.Level, loaded.Logging.Format)
		cfg = loaded
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Extract the archive and load or rebuild the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		notifier, closeNotifier := newNotifier(cfg)
		defer closeNotifier()
		snap, err := bootstrap(ctx, cfg, notifier, nil)
		if err != nil {
			return err
		}
		idx := snap.Index
		state := "reused"
		if snap.Rebuilt {
			state = "rebuilt"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "index %s: %d terms, %d occurrences, %d documents (checksum %s)\n",
			state, idx.Len(), idx.Occurrences(), idx.Documents(), snap.Checksum)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one phrase query and print the top matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exec, err := newExecutor(ctx, cfg)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		if exact, _ := cmd.Flags().GetBool("exact"); exact {
			printMatches(cmd.OutOrStdout(), query, exec.Lookup(ctx, query))
			return nil
		}
		res, err := exec.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read queries from standard input until \"exit\"",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		exec, err := newExecutor(ctx, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Index ready.")
		return repl(ctx, exec, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// repl answers one query per input line. It stops at "exit", end of input or
// cancellation.
func repl(ctx context.Context, exec *executor.Executor, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter your text: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			return nil
		}
		// Scores depend on the query exactly as typed.
		res, err := exec.Search(ctx, line)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		printResult(out, res)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/development.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	searchCmd.Flags().Bool("exact", false, "look the query up as a single index term instead of a phrase")

	rootCmd.AddCommand(indexCmd, searchCmd, replCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
