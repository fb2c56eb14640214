package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/vexport/vexport/extract"
	"github.com/vexport/vexport/gologger"
	"github.com/vexport/vexport/utils"
	"github.com/vexport/vexport/vertica"
	"github.com/vexport/vexport/writer"
)

var logger = gologger.NewLogger()

type (
	// Config is the whole run's configuration, built once from flags and env
	// defaults and passed by value from here on.
	Config struct {
		Server   string `validate:"required"`
		Port     int    `validate:"min=1,max=65535"`
		Database string `validate:"required"`
		Username string `validate:"required"`
		Password string
		Output   string `validate:"required"`
		Force    bool
		Table    string `validate:"required"`
		Limit    int64
	}
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		logger.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("vexport", flag.ContinueOnError)

	var cfg Config
	for _, name := range []string{"s", "server"} {
		fs.StringVar(&cfg.Server, name, utils.GetEnvOrDefault("VEXPORT_SERVER", "localhost"), "server to connect to")
	}
	for _, name := range []string{"p", "port"} {
		fs.IntVar(&cfg.Port, name, int(utils.GetEnvOrDefaultInt("VEXPORT_PORT", 5433)), "port to connect to")
	}
	for _, name := range []string{"d", "database"} {
		fs.StringVar(&cfg.Database, name, os.Getenv("VEXPORT_DATABASE"), "database to extract from (required)")
	}
	for _, name := range []string{"u", "username"} {
		fs.StringVar(&cfg.Username, name, utils.GetEnvOrDefault("VEXPORT_USERNAME", "dbadmin"), "username for login")
	}
	for _, name := range []string{"P", "password"} {
		fs.StringVar(&cfg.Password, name, "", "password for user (prompted when omitted)")
	}
	for _, name := range []string{"o", "output"} {
		fs.StringVar(&cfg.Output, name, "", "output file name (required)")
	}
	for _, name := range []string{"f", "force"} {
		fs.BoolVar(&cfg.Force, name, false, "overwrite destination file")
	}
	for _, name := range []string{"t", "table"} {
		fs.StringVar(&cfg.Table, name, "", "table to extract (required)")
	}
	for _, name := range []string{"l", "limit"} {
		fs.Int64Var(&cfg.Limit, name, -1, "maximum number of rows to extract")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	passwordSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "P" || f.Name == "password" {
			passwordSet = true
		}
	})
	if !passwordSet {
		cfg.Password = promptPassword()
	}

	return cfg, nil
}

func promptPassword() string {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read password, continuing without one")
		return ""
	}
	return string(b)
}

func run(ctx context.Context, cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// the overwrite policy fails before any connection is made
	w, err := writer.Open(cfg.Output, cfg.Force)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetLimit(cfg.Limit)

	db, err := vertica.Connect(ctx, vertica.Config{
		Server:   cfg.Server,
		Port:     cfg.Port,
		Database: cfg.Database,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	cols, err := vertica.FetchSchema(ctx, db, cfg.Table)
	if err != nil {
		return err
	}
	// unsupported types abort here, before a single row is pulled
	if err := cols.Validate(); err != nil {
		return err
	}

	src, err := vertica.QueryTable(ctx, db, cfg.Table, cols, cfg.Limit)
	if err != nil {
		return err
	}
	defer src.Close()

	rows, err := extract.Run(ctx, cols, src, w)
	if err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	logger.Info().Int64("rows", rows).Str("output", cfg.Output).Msg("done")
	return nil
}
