// Command eventify-bell is a terminal notification bell for Eventify.
//
// Usage:
//
//	eventify-bell [--config path]            run the bell
//	eventify-bell [--config path] login      store a token and role
//	eventify-bell [--config path] logout     forget them
//	eventify-bell [--config path] history    print the read-state journal
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sqlainsaad5/eventify-bell/internal/app"
	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/logging"
	"github.com/sqlainsaad5/eventify-bell/internal/metrics"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/navigate"
	"github.com/sqlainsaad5/eventify-bell/internal/notify"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	"github.com/sqlainsaad5/eventify-bell/internal/store"
	"github.com/sqlainsaad5/eventify-bell/internal/ui/login"
)

// Environment variables that bypass the keyring.
const (
	envToken = model.EnvPrefix + "_TOKEN"
	envRole  = model.EnvPrefix + "_ROLE"
)

func main() {
	flags := pflag.NewFlagSet("eventify-bell", pflag.ExitOnError)
	configPath := flags.String("config", model.DefaultConfigPath(), "path to the config file")
	limit := flags.IntP("limit", "n", 50, "number of journal entries shown by history")
	_ = flags.Parse(os.Args[1:])

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch cmd := flags.Arg(0); cmd {
	case "":
		err = runBell(cfg)
	case "login":
		logging.SetupConsole(cfg.Log)
		err = runLogin(cfg, *configPath)
	case "logout":
		logging.SetupConsole(cfg.Log)
		err = runLogout()
	case "history":
		logging.SetupConsole(cfg.Log)
		err = runHistory(cfg, *limit, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "eventify-bell:", err)
		os.Exit(1)
	}
}

// session prefers a token from the environment over the keyring.
func session() credential.Session {
	if token := os.Getenv(envToken); token != "" {
		return credential.NewStaticSession(token, model.ParseRole(os.Getenv(envRole)))
	}
	return credential.NewKeyringSession()
}

func runBell(cfg *model.Config) error {
	closer, err := logging.SetupFile(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, log.Logger); err != nil {
				log.Error().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer journal.Close()

	client := remote.NewHTTPClient(cfg.API.BaseURL, log.Logger)
	defer client.Close()

	nav := navigate.NewClipboardNavigator(cfg.App.BaseURL, log.Logger)
	svc := notify.NewService(client, session(), journal, nav, log.Logger)
	if err := svc.Start(cfg.Poll.Interval()); err != nil {
		return err
	}
	defer svc.Stop()

	log.Info().
		Str("api", cfg.API.BaseURL).
		Dur("interval", cfg.Poll.Interval()).
		Msg("bell started")

	p := tea.NewProgram(app.New(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func runLogin(cfg *model.Config, configPath string) error {
	ks := credential.NewKeyringSession()
	role, err := ks.Role()
	if err != nil {
		log.Debug().Err(err).Msg("reading stored role")
	}

	res, err := login.New(cfg.API.BaseURL, role).Run()
	if err != nil {
		return err
	}

	if err := ks.Save(res.Token, res.Role); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	if res.APIBaseURL != cfg.API.BaseURL {
		cfg.API.BaseURL = res.APIBaseURL
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
	}

	log.Info().Str("role", string(res.Role)).Str("api", res.APIBaseURL).Msg("signed in")
	return nil
}

func runLogout() error {
	if err := credential.NewKeyringSession().Clear(); err != nil {
		return err
	}
	log.Info().Msg("signed out")
	return nil
}

func runHistory(cfg *model.Config, limit int, out io.Writer) error {
	journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.ListReadState(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no read-state requests recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOP\tNOTIFICATION\tRESULT")
	for _, e := range entries {
		result := "confirmed"
		if !e.Confirmed {
			result = "failed: " + e.Error
		}
		id := e.NotificationID.String()
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.At.Local().Format("2006-01-02 15:04:05"), e.Op, id, result)
	}
	return tw.Flush()
}
