package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidbyt-labs/pyroutech"
	"github.com/tidbyt-labs/pyroutech/store"
)

var maxRoutes int

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Interactively plan journeys between two stations",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().IntVarP(&maxRoutes, "max-routes", "k", 5, "number of earliest-arrival journeys to return")
}

func runRoute(cmd *cobra.Command, args []string) error {
	fs, err := store.Load(feedDir, store.Options{CacheDir: cacheDir})
	if err != nil {
		return fmt.Errorf("loading feed: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		<-sigCh
		fmt.Println()
		os.Exit(130)
	}()

	reader := bufio.NewReader(os.Stdin)
	now := time.Now().In(fs.Timezone())

	for {
		start, err := prompt(reader, "From station")
		if err != nil {
			return err
		}
		end, err := prompt(reader, "To station")
		if err != nil {
			return err
		}
		date, err := promptDefault(reader, "Date (YYYY-MM-DD)", now.Format("2006-01-02"))
		if err != nil {
			return err
		}
		depTime, err := promptDefault(reader, "Earliest departure (HH:MM)", now.Format("15:04"))
		if err != nil {
			return err
		}

		journeys, err := pyroutech.FindRoute(fs, start, end, date, depTime, pyroutech.WithMaxRoutes(maxRoutes))
		if err != nil {
			printQueryError(err)
		} else {
			printJourneys(journeys)
		}

		again, err := prompt(reader, "Search again? [y/N]")
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(again)) != "y" {
			return nil
		}
	}
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptDefault(reader *bufio.Reader, label, def string) (string, error) {
	fmt.Printf("%s [%s]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func printQueryError(err error) {
	switch e := err.(type) {
	case *pyroutech.ErrStationNotFound:
		fmt.Printf("no station matches %q\n", e.Name)
	case *pyroutech.ErrAmbiguousStation:
		fmt.Printf("%q is ambiguous, candidates:\n", e.Name)
		for _, c := range e.Candidates {
			fmt.Printf("  - %s\n", c)
		}
	default:
		fmt.Println(err)
	}
}

func printJourneys(journeys []pyroutech.Journey) {
	if len(journeys) == 0 {
		fmt.Println("no journeys found")
		return
	}
	for i, j := range journeys {
		fmt.Printf("%d. depart %s, arrive %s\n", i+1, formatHMS(j.Segments[0].BoardSec), formatHMS(j.ArrivalSec()))
		for _, seg := range j.Segments {
			if seg.WaitBeforeSec > 0 {
				fmt.Printf("     wait %s\n", formatDuration(seg.WaitBeforeSec))
			}
			fmt.Printf("     %-6s %s (%s) -> %s (%s)\n", seg.RouteShortName, seg.BoardStopName, formatHMS(seg.BoardSec), seg.AlightStopName, formatHMS(seg.AlightSec))
		}
	}
}

func formatHMS(sec int32) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatDuration(sec int32) string {
	return fmt.Sprintf("%dm%02ds", sec/60, sec%60)
}
