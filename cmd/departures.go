package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidbyt-labs/pyroutech"
	"github.com/tidbyt-labs/pyroutech/store"
)

var (
	departuresAfter string
	departuresLimit int
)

var departuresCmd = &cobra.Command{
	Use:   "departures <station>",
	Short: "Lists upcoming departures from a station",
	Args:  cobra.ExactArgs(1),
	RunE:  runDepartures,
}

func init() {
	departuresCmd.Flags().StringVarP(&departuresAfter, "after", "a", "00:00", "only list departures at or after this time (HH:MM)")
	departuresCmd.Flags().IntVarP(&departuresLimit, "limit", "l", 20, "limit the number of departures returned, <=0 for unbounded")
}

func runDepartures(cmd *cobra.Command, args []string) error {
	fs, err := store.Load(feedDir, store.Options{CacheDir: cacheDir})
	if err != nil {
		return fmt.Errorf("loading feed: %w", err)
	}

	afterSec, err := pyroutech.ParseTimeOfDay(departuresAfter)
	if err != nil {
		return err
	}

	stopIDs, err := fs.ResolveStation(args[0])
	if err != nil {
		return err
	}

	for stopID := range stopIDs {
		for _, dep := range fs.Departures(stopID, afterSec, departuresLimit) {
			fmt.Printf("%s %-6s trip %s from %s\n", formatHMS(dep.DepartureSec), dep.RouteShortName, dep.TripID, fs.StopName(stopID))
		}
	}

	return nil
}
