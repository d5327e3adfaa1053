package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gpsroute/internal/nmea"
	"gpsroute/internal/route"
	"gpsroute/internal/store"
)

func printRouteSummary(w io.Writer, path string, src route.Source, s route.Summary) {
	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "format: %s\n", src)
	if s.Name != "" {
		fmt.Fprintf(w, "name: %s\n", s.Name)
	}
	fmt.Fprintf(w, "positions: %d\n", s.Positions)
	fmt.Fprintf(w, "accepted_positions: %d\n", s.Accepted)
	fmt.Fprintf(w, "granularity_m: %.1f\n", s.GranularityM)
	fmt.Fprintf(w, "total_length_m: %.1f\n", s.TotalLengthM)
	fmt.Fprintf(w, "net_length_m: %.1f\n", s.NetLengthM)
	fmt.Fprintf(w, "height_gain_m: %.1f\n", s.HeightGainM)
	fmt.Fprintf(w, "height_loss_m: %.1f\n", s.HeightLossM)
	if b := s.Bounds; b != nil {
		fmt.Fprintf(w, "bounds:\n")
		fmt.Fprintf(w, "  lat: %.6f..%.6f\n", b.MinLat, b.MaxLat)
		fmt.Fprintf(w, "  lon: %.6f..%.6f\n", b.MinLon, b.MaxLon)
		fmt.Fprintf(w, "  ele: %.1f..%.1f\n", b.MinEle, b.MaxEle)
	}
	if s.StartTimeZone != "" {
		fmt.Fprintf(w, "start_time_zone: %s\n", s.StartTimeZone)
	}
}

func printLogStats(w io.Writer, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rr := nmea.NewReader(f)
	for rr.Scan() {
	}
	if err := rr.Err(); err != nil {
		return err
	}

	s := rr.Stats()
	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "lines: %d\n", s.Lines)
	fmt.Fprintf(w, "blank: %d\n", s.Blank)
	fmt.Fprintf(w, "invalid: %d\n", s.Invalid)
	fmt.Fprintf(w, "unsupported: %d\n", s.Unsupported)
	fmt.Fprintf(w, "malformed: %d\n", s.Malformed)
	fmt.Fprintf(w, "accepted: %d\n", s.Accepted)
	return nil
}

func printRouteRecords(w io.Writer, recs []store.RouteRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSOURCE\tPOSITIONS\tLENGTH_M\tCREATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.1f\t%s\n", r.ID, r.Name, r.Source, r.NumPositions, r.TotalLengthM, r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	_ = tw.Flush()
}
