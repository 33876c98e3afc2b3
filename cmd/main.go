package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `Usage: attemptkeeper [command] [flags]

Commands:
  serve            HTTP API and background scheduler (default)
  mark-abandoned   mark stale in_progress attempts as abandoned
  purge-abandoned  delete old low-progress abandoned attempts
  reconcile        recompute daily stats: --from YYYY-MM-DD --to YYYY-MM-DD [--user ID] [--mode rebuild|merge] [--dry-run]
  migrate          apply database migrations
`

// errUsage marks a bad invocation; it exits with status 2.
var errUsage = errors.New("usage error")

// @title Attempt Lifecycle API
// @version 1.0
// @description Abandonment detection, purge and daily stats reconciliation for exam attempts.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	command, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "serve":
		err = serve()
	case "mark-abandoned":
		err = markAbandoned(args)
	case "purge-abandoned":
		err = purgeAbandoned(args)
	case "reconcile":
		err = reconcile(args)
	case "migrate":
		err = migrateDB(args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	if err == nil {
		return
	}
	if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	log.Error().Err(err).Str("command", command).Msg("Command failed")
	os.Exit(1)
}
