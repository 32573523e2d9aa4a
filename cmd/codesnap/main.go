package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/codesnap/internal/cli"
	"github.com/temirov/codesnap/internal/utils"
)

// main is the entry point for the codesnap command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	applicationExecutionError := cli.Execute(ctx, loggerInstance)
	stop()
	_ = loggerInstance.Sync()
	if applicationExecutionError != nil {
		os.Exit(1)
	}
}
