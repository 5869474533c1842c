package util

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kvmirror/kvmirror/lib/config"
	"github.com/kvmirror/kvmirror/lib/logging"
	"github.com/kvmirror/kvmirror/lib/store/resolver"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the common store selection flags to a command.
func SetupStoreFlags(cmd *cobra.Command) {
	key := "store"
	cmd.PersistentFlags().String(key, "", WrapString("ID of the store to operate on. Defaults to the process-wide default store"))

	key = "force-cloud"
	cmd.PersistentFlags().Bool(key, false, WrapString("Use the remote record service even when a local storage directory is configured"))

	key = config.KeyLocalStorageDir
	cmd.PersistentFlags().String(key, "", WrapString("Root directory of the local storage mirror. When set, stores live on the local filesystem"))

	key = config.KeyToken
	cmd.PersistentFlags().String(key, "", WrapString("Authentication token for the remote record service"))

	key = config.KeyAPIBaseURL
	cmd.PersistentFlags().String(key, "", WrapString("Base URL of the record service API"))
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetLogger creates the CLI logger from the configured log level.
func GetLogger() (*zap.Logger, error) {
	return logging.New("kvmirror", viper.GetString(config.KeyLogLevel))
}

// GetResolver creates a store resolver from the current configuration.
func GetResolver() (*resolver.Resolver, error) {
	logger, err := GetLogger()
	if err != nil {
		return nil, err
	}
	return resolver.New(config.Load(), logger), nil
}

// GetTargetStoreID retrieves the store id selected on the command line.
func GetTargetStoreID() string {
	return viper.GetString("store")
}

// GetOpenOptions retrieves the backend selection overrides.
func GetOpenOptions() *resolver.OpenOptions {
	return &resolver.OpenOptions{ForceCloud: viper.GetBool("force-cloud")}
}
