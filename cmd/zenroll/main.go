package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zenroll/internal/api"
	"github.com/zarlcorp/zenroll/internal/cli"
	"github.com/zarlcorp/zenroll/internal/config"
	"github.com/zarlcorp/zenroll/internal/tui"
	"github.com/zarlcorp/zenroll/internal/validate"
)

// version is set at build time via ldflags.
var version = "dev"

const usage = `usage: zenroll [--phone N] [--code C] [--error MSG] [--first F] [--last L]
               [--email E] [--dob MM/DD/YYYY] [--no-profile]
       zenroll check --first F --last L --email E --dob MM/DD/YYYY [--accept-terms]
       zenroll profile [--json]
       zenroll forget
       zenroll version`

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens
// before exit.
func run() int {
	app := zapp.New(zapp.WithName("zenroll"))
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zenroll: %v\n", err)
		return 1
	}

	closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zenroll: %v\n", err)
		return 1
	}
	defer closeLog()

	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		if err := runCLI(ctx, cfg, os.Args[1]); err != nil {
			if !errors.Is(err, cli.ErrNotReady) {
				fmt.Fprintf(os.Stderr, "zenroll: %v\n", err)
			}
			return 1
		}
		return 0
	}

	if err := runTUI(ctx, cfg, os.Args[1:]); err != nil {
		slog.Error("tui", "err", err)
		fmt.Fprintf(os.Stderr, "zenroll: %v\n", err)
		return 1
	}

	return 0
}

func runCLI(_ context.Context, cfg config.Config, cmd string) error {
	switch cmd {
	case "version":
		fmt.Printf("zenroll %s\n", version)
		return nil
	case "check":
		return cli.CmdCheck(os.Args[2:], cfg.MinAge)
	case "profile":
		return cli.CmdProfile(os.Args[2:])
	case "forget":
		return cli.CmdForget()
	case "help":
		fmt.Println(usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func runTUI(ctx context.Context, cfg config.Config, args []string) error {
	fa, err := cli.ParseFormArgs(args)
	if err != nil {
		return err
	}

	dob := validate.DefaultDOBParser()
	dob.MinAge = cfg.MinAge

	dataDir := cli.DataDir()
	opts := tui.Options{
		Context:     ctx,
		Version:     version,
		DataDir:     dataDir,
		FirstRun:    cli.IsFirstRun(dataDir),
		UseProfiles: !fa.NoProfile,
		Session: tui.Session{
			PhoneNumber:      fa.Phone,
			VerificationCode: fa.Code,
			VerifyError:      fa.VerifyError,
			Prefill:          fa.Prefill,
		},
		TermsURL: cfg.TermsURL,
		Email:    validate.NewEmail(),
		DOB:      dob,
		OpenURL:  tui.OpenBrowser,
	}

	if cfg.SubmitConfigured() {
		client := api.NewClient(api.Config{BaseURL: cfg.APIURL, APIKey: cfg.APIKey})
		opts.Submit = client.CreateAccount
	} else {
		slog.Warn("ZENROLL_API_URL not set, submission disabled")
	}

	p := tea.NewProgram(tui.New(opts), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}
	if err != nil {
		return err
	}

	return nil
}

// setupLogger sends slog output to path, or discards it so log lines never
// land on top of the TUI.
func setupLogger(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}
