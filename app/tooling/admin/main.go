// This program performs administrative tasks for the blockchain node.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blocksmith/blocksmith/app/tooling/admin/commands"
	"github.com/blocksmith/blocksmith/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using -ldflags at build time.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("startup", "version", build)

	return processCommands(os.Args, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, log *zap.SugaredLogger) error {
	if len(args) < 2 {
		return errors.New("usage: admin keys <folder> <name>... | admin demo [difficulty]")
	}

	switch args[1] {
	case "keys":
		if err := commands.Keys(os.Stdout, args); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

	case "demo":
		if err := commands.Demo(context.Background(), os.Stdout, log, args); err != nil {
			return fmt.Errorf("running demo: %w", err)
		}

	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
