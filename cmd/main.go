package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "pyroutech",
	Short:        "PyRouteCH journey planner",
	Long:         "Computes earliest-arrival journeys between two stations from a static GTFS feed",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			slog.SetLogLoggerLevel(level)
		}
	},
}

var (
	feedDir  string
	cacheDir string
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&feedDir, "feed", "f", "", "path to a GTFS static feed directory (required)")
	rootCmd.PersistentFlags().StringVarP(&cacheDir, "cache", "", "", "directory for the on-disk feed snapshot cache (disabled if empty)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "log level: debug, info, warn, error")
	rootCmd.MarkPersistentFlagRequired("feed")
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(departuresCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
