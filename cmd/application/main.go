package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/app"
	"wpbreez_sync/internal/auth"
	"wpbreez_sync/pkg/logger"
)

const usage = `usage: application [flags] <command>

commands:
  categories   import product categories
  brands       import brands under the brand root term
  products     import one page of products (-page N) or all pages (-all)
  techs        refresh technical attributes of published products
  stocks       update stock quantities and prices
  serve        run the sync API
  token        print a signed API token (-role, -subject, -ttl)

flags:
`

func main() {
	var (
		configPath = flag.String("config", "", "path to the YAML config")
		dryRun     = flag.Bool("dry-run", false, "keep catalog changes in memory")
		page       = flag.Int("page", 1, "products page")
		allPages   = flag.Bool("all", false, "import product pages until the feed is exhausted")
		role       = flag.String("role", auth.RoleAdmin, "token role")
		subject    = flag.String("subject", "cli", "token subject")
		ttl        = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		logPath    = flag.String("log", "", "also append logs to this file")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	// логи всегда идут в stderr, stdout занят отчётами
	var writer io.Writer = io.Discard
	if *logPath != "" {
		file, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		writer = file
	}
	log := logger.NewLogger(writer, "[Main]")
	defer log.Sync()
	// os.Exit не выполняет defer
	exit := func(code int) {
		_ = log.Sync()
		os.Exit(code)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error("config: %v", err)
		exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Error("log level: %v", err)
	}

	if command == "token" {
		token, err := auth.IssueToken(cfg.Server.JWTSecret, *subject, *role, *ttl)
		if err != nil {
			log.Error("token: %v", err)
			exit(1)
		}
		fmt.Println(token)
		return
	}
	if command != "serve" && !app.IsOperation(command) {
		flag.Usage()
		exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(cfg, *dryRun, writer)
	if err != nil {
		log.Error("startup: %v", err)
		exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("shutdown: %v", err)
		}
	}()

	if err := run(ctx, application, command, *page, *allPages); err != nil {
		log.Error("%s: %v", command, err)
		application.Close()
		exit(1)
	}
}

func run(ctx context.Context, application *app.Application, command string, page int, allPages bool) error {
	switch {
	case command == "serve":
		server, err := application.NewServer()
		if err != nil {
			return err
		}
		return server.Run(ctx)

	case command == app.OpProducts && allPages:
		reports, err := application.Runner.RunAllProducts(ctx)
		printReports(reports...)
		return err
	}

	report, err := application.Runner.Run(ctx, command, page)
	if report != nil {
		printReports(report)
	}
	return err
}

func printReports(reports ...*app.Report) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, r := range reports {
		_ = encoder.Encode(r)
	}
}
