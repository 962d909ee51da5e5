package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venue-cli/api"
	"venue-cli/config"
	"venue-cli/session"
	"venue-cli/storage"

	"github.com/spf13/cobra"
)

// routeAnnotation names the view a command renders. Commands without one
// (help, completion, serve) are not guarded.
const routeAnnotation = "route"

// errRedirected stops the requested view after the guard rendered sign-in
// in its place.
var errRedirected = errors.New("redirected to sign-in")

// App carries the process-wide state every view reads.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Session
	Client  *api.Client
	Guard   *session.Guard
	Now     func() time.Time

	configPath    string
	outputJSON    bool
	outputCompact bool
	closers       []func() error
}

func NewApp() *App {
	return &App{
		Guard:      session.NewGuard(),
		Now:        time.Now,
		configPath: os.Getenv("VENUE_CONFIG"),
	}
}

func newRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "venue",
		Short: "Venue booking CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.outputJSON && a.outputCompact {
				return fmt.Errorf("choose either --json or --compact")
			}
			if err := a.init(cmd.ErrOrStderr()); err != nil {
				return err
			}
			route, ok := cmd.Annotations[routeAnnotation]
			if !ok {
				return nil
			}
			if err := a.openSession(); err != nil {
				return err
			}
			decision := a.Guard.Check(route, a.Session.Authenticated())
			if decision.Allow {
				cmd.SetContext(api.WithView(cmd.Context(), route))
				return nil
			}
			a.Logger.Debug("guard redirect", "route", route, "to", decision.RedirectTo)
			return a.redirect(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&a.outputJSON, "json", false, "Output JSON")
	root.PersistentFlags().BoolVar(&a.outputCompact, "compact", false, "Output compact text")
	root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "Config file (default: $VENUE_CONFIG)")

	root.AddCommand(signInCmd(a))
	root.AddCommand(signOutCmd(a))
	root.AddCommand(statusCmd(a))
	root.AddCommand(venuesCmd(a))
	root.AddCommand(bookCmd(a))
	root.AddCommand(bookingsCmd(a))
	root.AddCommand(adminCmd(a))
	root.AddCommand(serveCmd(a))
	return root
}

func Execute() {
	app := NewApp()
	root := newRootCmd(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	app.Close()

	if err != nil && !errors.Is(err, errRedirected) {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// init loads configuration and the logger once. Fields set beforehand are
// kept.
func (a *App) init(stderr io.Writer) error {
	if a.Config == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Logger == nil {
		a.Logger = config.NewLogger(a.Config.Environment, a.Config.LogLevel, stderr)
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Guard == nil {
		a.Guard = session.NewGuard()
	}
	return nil
}

// openSession restores the persisted token and builds the API client bound
// to it.
func (a *App) openSession() error {
	if a.Session == nil {
		storage.SetDataDir(a.Config.DataDir)
		db, err := storage.OpenLocalStorage()
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)

		sess, err := session.New(storage.NewTokenStore(db))
		if err != nil {
			return err
		}
		a.Session = sess
	}
	if a.Client == nil {
		a.Client = api.NewClient(a.Config.APIBaseURL, a.Session)
		a.Client.HTTP.Timeout = a.Config.Timeout()
		a.Client.Logger = a.Logger
	}
	return nil
}

func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && a.Logger != nil {
			a.Logger.Warn("close local storage", "error", err)
		}
	}
	a.closers = nil
}

// redirect renders the sign-in view in place of the requested one.
func (a *App) redirect(cmd *cobra.Command) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Sign in required.")
	if err := a.runSignIn(cmd, signInOptions{}); err != nil {
		return err
	}
	return errRedirected
}

// withReauth wraps a command body so that a rejected session sends the user back
// to sign-in.
func (a *App) withReauth(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil || !errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Your session has ended.")
		return a.redirect(cmd)
	}
}

func routed(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[routeAnnotation] = route
	return cmd
}
