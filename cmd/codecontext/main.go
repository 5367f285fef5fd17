package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ADMhS/CodeContext/internal/cli"
	"github.com/ADMhS/CodeContext/internal/utils"
)

// main is the entry point for the codecontext command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()

	executionContext, cancelExecution := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelExecution()

	if applicationExecutionError := cli.Execute(executionContext); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
