package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chris/growthcoach/config"
	"github.com/chris/growthcoach/internal/agent"
	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/discord"
	"github.com/chris/growthcoach/internal/journal"
	"github.com/chris/growthcoach/internal/llm"
	"github.com/chris/growthcoach/internal/scheduler"
	"github.com/chris/growthcoach/internal/search"
	"github.com/chris/growthcoach/internal/sheets"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command shares: configuration, the local database
// and the one tabular store for the process.
type app struct {
	cfg   *config.Config
	db    *db.DB
	store sheets.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var store sheets.Store
	switch cfg.StoreBackend {
	case "google":
		gs, err := sheets.Connect(ctx, sheets.Credentials{Path: cfg.CredentialsPath})
		if err != nil {
			database.Close()
			return nil, err
		}
		store = gs
	case "local":
		store = database.Sheets()
	default:
		database.Close()
		return nil, fmt.Errorf("%w: unknown STORE_BACKEND %q (want google or local)", sheets.ErrConfiguration, cfg.StoreBackend)
	}
	return &app{cfg: cfg, db: database, store: store}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func (a *app) journal() *journal.Journal {
	return journal.New(a.store, a.cfg.SpreadsheetID, journal.WithRanges(a.cfg.ReadRange, a.cfg.AppendRange))
}

func (a *app) agent(ctx context.Context) (*agent.Agent, error) {
	client, err := llm.NewClient(ctx, a.cfg.Provider())
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	var searcher search.Searcher
	if a.cfg.GeminiKey != "" {
		g, err := search.NewGemini(ctx, a.cfg.GeminiKey, a.cfg.QuickModel, llm.SearchPrompt)
		if err != nil {
			return nil, err
		}
		searcher = g
	} else {
		log.Println("no Gemini key set; search sub-agent disabled")
	}

	return agent.New(a.journal(), client, searcher, a.cfg.MaxContextTokens), nil
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coach",
		Short: "A daily growth mindset coach backed by a spreadsheet journal",
		Long: `coach talks you through a short daily session: how yesterday's hard
thing went, where you slid into slobby habits, and the hard thing you will
do today. Each session is recorded as one dated row in a spreadsheet.

Settings come from the environment, .env and ` + config.ConfigFile() + `.`,
		SilenceUsage: true,
		RunE:         runChat,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start an interactive session on the terminal",
			Args:  cobra.NoArgs,
			RunE:  runChat,
		},
		newRunCmd(),
		newYesterdayCmd(),
		newHistoryCmd(),
		newInitCmd(),
		newSheetCmd(),
		newServiceCmd(),
		newSearchCmd(),
	)
	return root
}

func runChat(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		ag, err := a.agent(ctx)
		if err != nil {
			return err
		}
		runCLI(ctx, ag)
		return nil
	})
}

func runCLI(ctx context.Context, ag *agent.Agent) {
	scanner := bufio.NewScanner(os.Stdin)

	// Check if stdin is a pipe (non-interactive)
	stat, _ := os.Stdin.Stat()
	isPipe := (stat.Mode() & os.ModeCharDevice) == 0

	if !isPipe {
		fmt.Print("coach> ")
	}

	var history []llm.Message

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			if !isPipe {
				fmt.Print("coach> ")
			}
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, newHistory, err := ag.Run(ctx, history, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Println(reply)
			history = llm.TrimMessages(newHistory, ag.MaxContextTokens)
		}

		if isPipe {
			break // single exchange in pipe mode
		}
		fmt.Print("coach> ")
	}
}

func newRunCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Discord bot and the scheduled daily session",
		Example: `
coach run
coach run --once   # open one session now and exit
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				ag, err := a.agent(ctx)
				if err != nil {
					return err
				}
				return runBot(ctx, a, ag, once)
			})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "open a single session now and exit")
	return cmd
}

func runBot(ctx context.Context, a *app, ag *agent.Agent, once bool) error {
	cfg := a.cfg

	var dmSend scheduler.DMSender
	if cfg.DiscordToken != "" {
		bot, err := discord.NewBot(cfg.DiscordToken, ag, a.db)
		if err != nil {
			return fmt.Errorf("starting Discord bot: %w", err)
		}
		defer bot.Close()
		dmSend = bot.SendDM
	}

	var webhook func(string) error
	if cfg.DiscordWebhook != "" {
		w, err := discord.NewWebhook(cfg.DiscordWebhook)
		if err != nil {
			return err
		}
		webhook = w.Send
	}

	if dmSend == nil && webhook == nil {
		return fmt.Errorf("%w: set DISCORD_BOT_TOKEN or DISCORD_WEBHOOK_URL", sheets.ErrConfiguration)
	}

	sched := scheduler.New(a.db, ag, cfg.SessionCron, dmSend, webhook)
	if once {
		_, err := sched.RunSession(ctx)
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	log.Println("coach is running. Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")
	return nil
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <request>",
		Short:   "Ask the search sub-agent directly and print its cited answer",
		Example: `coach search "a Carol Dweck quote about effort"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.GeminiKey == "" {
				return fmt.Errorf("search needs GOOGLE_API_KEY or GEMINI_API_KEY")
			}
			ctx := cmd.Context()
			g, err := search.NewGemini(ctx, cfg.GeminiKey, cfg.QuickModel, llm.SearchPrompt)
			if err != nil {
				return err
			}
			res, err := g.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(res.String())
			return nil
		},
	}
}
