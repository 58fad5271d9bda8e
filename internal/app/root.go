// Package app wires the readerctl commands: config, credential store,
// API client, session manager, and the resource services they feed.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/blackwell-systems/readerctl/internal/api"
	"github.com/blackwell-systems/readerctl/internal/cache"
	"github.com/blackwell-systems/readerctl/internal/config"
	"github.com/blackwell-systems/readerctl/internal/credstore"
	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/blackwell-systems/readerctl/internal/session"
	"github.com/blackwell-systems/readerctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	client   *api.Client
	store    *credstore.Store
	sess     *session.Manager
	cacheMgr *cache.Manager

	books      *reader.BooksService
	highlights *reader.HighlightsService
	progress   *reader.ProgressService
	users      *reader.UsersService

	flagNoColor       bool
	flagNoInteractive bool

	version = "dev"
)

// SetVersion records the build version injected from main.
func SetVersion(v string) { version = v }

var rootCmd = &cobra.Command{
	Use:   "readerctl",
	Short: "Reading companion for your book library, highlights, and progress",
	Long: `readerctl talks to a reader backend: manage your library, save and
share highlights, and track reading progress from the terminal.

Configure the backend once with 'readerctl init', log in with
'readerctl login', then browse with 'readerctl books'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive prompts and pickers")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// init and version run without a configured backend.
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w; run 'readerctl init' or set READERCTL_API_BASE_URL", err)
		}

		logLevel := slog.LevelInfo
		var logger *slog.Logger
		if cfg.API.Debug {
			logLevel = slog.LevelDebug
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		}

		store = credstore.New(cfg.Defaults.DataDir)
		client = api.New(api.Options{
			BaseURL:     cfg.API.BaseURL,
			Timeout:     cfg.API.Timeout(),
			AppName:     cfg.App.Name,
			AppVersion:  versionOr(cfg.App.Version),
			Credentials: store,
			Logger:      logger,
		})
		sess = session.NewManager(client, store, logger)
		sess.OnSessionExpired(func() {
			warn("session expired, please run 'readerctl login' again")
		})

		cacheMgr = cache.New(cfg.Defaults.CacheDir)
		books = reader.NewBooksService(client, sess)
		highlights = reader.NewHighlightsService(client, sess)
		progress = reader.NewProgressService(client, sess)
		users = reader.NewUsersService(client, sess)
		return nil
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newForgotPasswordCmd(),
		newResetPasswordCmd(),
		newBooksCmd(),
		newHighlightsCmd(),
		newProgressCmd(),
		newAccountCmd(),
		newVersionCmd(),
	)
}

func versionOr(configured string) string {
	if configured != "" && configured != "dev" {
		return configured
	}
	return version
}

// requireSession restores the persisted session and fails with a login
// hint when no valid session exists.
func requireSession(cmd *cobra.Command) error {
	if err := sess.Restore(cmd.Context()); err != nil {
		if api.AsError(err).Kind == api.KindUnauthorized {
			return fmt.Errorf("session expired; run 'readerctl login'")
		}
		return err
	}
	if sess.State() != session.Authenticated {
		return fmt.Errorf("not logged in; run 'readerctl login'")
	}
	return nil
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

// pageFooter prints pagination info under a listing.
func pageFooter(meta api.PageMeta) {
	if meta.TotalPages <= 1 {
		return
	}
	fmt.Printf("\npage %d/%d (%d items total, use --page to load more)\n",
		meta.CurrentPage, meta.TotalPages, meta.TotalItems)
}
