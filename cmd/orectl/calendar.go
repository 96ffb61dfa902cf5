package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ore/internal/core"
	"ore/internal/services"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the working-time calendar",
}

var calendarSetCmd = &cobra.Command{
	Use:   "set <date> <workday|public_holiday|weekend>",
	Short: "Classify a single date",
	Args:  cobra.ExactArgs(2),
	RunE:  runCalendarSet,
}

var calendarWeekendsCmd = &cobra.Command{
	Use:   "weekends <month>",
	Short: "Mark all unclassified Saturdays and Sundays of a month as weekend",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarWeekends,
}

func init() {
	calendarCmd.AddCommand(calendarSetCmd)
	calendarCmd.AddCommand(calendarWeekendsCmd)
}

func runCalendarSet(cmd *cobra.Command, args []string) error {
	date, err := core.ParseDate(args[0])
	if err != nil {
		return err
	}
	dayType := core.DayType(args[1])

	store, _, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	editor := services.NewCalendarEditor(store)
	if err := editor.SetDay(cmd.Context(), date, dayType); err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", date, dayType)
	return nil
}

func runCalendarWeekends(cmd *cobra.Command, args []string) error {
	month, err := core.ParseMonth(args[0])
	if err != nil {
		return err
	}

	store, _, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	editor := services.NewCalendarEditor(store)
	written, err := editor.MarkWeekends(cmd.Context(), month)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d weekend days marked\n", month, written)
	return nil
}
