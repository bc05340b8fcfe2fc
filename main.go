package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"uzpay/receipt-parser/cmd/batch"
	"uzpay/receipt-parser/cmd/parse"
	"uzpay/receipt-parser/cmd/root"
	"uzpay/receipt-parser/cmd/rules"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables silently, then pin the global log level
	// before any logger is created.
	loadEnvSilently()
	configureLogLevelDirectly()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus
// instances created before the configuration is read.
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
