// Command studyplan serves the study-plan API and exposes the video resolver on the command line.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "studyplan",
		Short:         "Syllabus study plans with curated lecture videos",
		Version:       version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default: $CONFIG_FILE)")

	rootCmd.AddCommand(newServeCmd(&configFile))
	rootCmd.AddCommand(newResolveCmd(&configFile))
	rootCmd.AddCommand(newResolvePlanCmd(&configFile))

	return rootCmd
}
