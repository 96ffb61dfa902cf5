package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ore/internal/core"
	"ore/internal/services"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <user-id> <date> <project:hours>...",
	Short: "Replace all entries for a user's day with the given segments",
	Long: `reconcile swaps a user's full day: every existing entry for the date
is deleted and one entry per segment is created, atomically. Segments are
given as project:hours pairs, e.g. "2:4" or "3:3,5". An empty segment list
clears the day.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	date, err := core.ParseDate(args[1])
	if err != nil {
		return err
	}

	segments := make([]core.Segment, 0, len(args)-2)
	for _, arg := range args[2:] {
		seg, err := parseSegment(arg)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
	}

	store, _, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	reconciler := services.NewReconcileService(store, nil, nil)
	created, err := reconciler.Reconcile(cmd.Context(), userID, date, segments)
	if err != nil {
		return err
	}

	var total float64
	for _, e := range created {
		total += e.Hours
	}
	fmt.Printf("%s: %d entries, %s total\n", date, len(created), core.FormatHours(total))
	return nil
}

func parseSegment(s string) (core.Segment, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return core.Segment{}, fmt.Errorf("invalid segment %q, expected project:hours", s)
	}
	projectID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return core.Segment{}, fmt.Errorf("invalid project id in segment %q", s)
	}
	hours, err := core.ParseHours(parts[1])
	if err != nil {
		return core.Segment{}, fmt.Errorf("segment %q: %w", s, err)
	}
	return core.Segment{ProjectID: projectID, Hours: &hours}, nil
}
