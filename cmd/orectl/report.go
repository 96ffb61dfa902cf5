package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ore/internal/core"
	"ore/internal/services"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <user-id> <month>",
	Short: "Show one user's monthly summary",
	Args:  cobra.ExactArgs(2),
	RunE:  runSummary,
}

var matrixCmd = &cobra.Command{
	Use:   "matrix <month>",
	Short: "Show the organization report matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatrix,
}

func runSummary(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	month, err := core.ParseMonth(args[1])
	if err != nil {
		return err
	}

	store, cfg, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	summaries := services.NewSummaryService(store, cfg.RequiredDailyHours, nil)
	summary, err := summaries.Summarize(cmd.Context(), month.First(), userID)
	if err != nil {
		return err
	}

	fmt.Printf("User %d, %s\n", userID, month)
	fmt.Println("--------------------------------")
	fmt.Printf("%-28s%s\n", "Reported workdays", core.FormatHours(summary.Reported.WorkdaysHours))
	fmt.Printf("%-28s%s\n", "Reported public holidays", core.FormatHours(summary.Reported.PublicHolidaysHours))
	fmt.Printf("%-28s%s\n", "Reported total", core.FormatHours(summary.Reported.TotalHours))
	fmt.Printf("%-28s%s\n", "Expected workdays", core.FormatHours(summary.Expected.WorkdaysHours))
	fmt.Printf("%-28s%s\n", "Expected public holidays", core.FormatHours(summary.Expected.PublicHolidaysHours))
	fmt.Println("--------------------------------")
	fmt.Printf("%-28s%s\n", "Missing workday hours", core.FormatHours(summary.Issues.MissingWorkdayHours))
	fmt.Printf("%-28s%s\n", "Missing holiday hours", core.FormatHours(summary.Issues.MissingPublicHolidayHours))
	fmt.Printf("%-28s%d\n", "Incomplete workdays", summary.Issues.IncompleteWorkdays)
	fmt.Printf("%-28s%d\n", "Incomplete holidays", summary.Issues.IncompletePublicHolidays)
	fmt.Printf("%-28s%s\n", "Overtime", core.FormatHours(summary.Issues.OvertimeHours))
	return nil
}

func runMatrix(cmd *cobra.Command, args []string) error {
	month, err := core.ParseMonth(args[0])
	if err != nil {
		return err
	}

	store, cfg, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	matrixSvc := services.NewMatrixService(store, cfg.RequiredDailyHours)
	matrix, err := matrixSvc.BuildMatrix(cmd.Context(), month)
	if err != nil {
		return err
	}

	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-16s", month.String()))
	for _, day := range matrix.Days {
		header.WriteString(fmt.Sprintf("%3d", day.Date.Day()))
	}
	fmt.Println(header.String())

	for _, row := range matrix.Rows {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-16s", truncate(row.User.Name, 15)))
		for _, cell := range row.Cells {
			line.WriteString(fmt.Sprintf("%3s", cellMark(cell)))
		}
		if row.HolidayMismatch {
			line.WriteString(fmt.Sprintf("  ! holidays %d/%d", row.HolidayDays, row.ExpectedHolidays))
		}
		fmt.Println(line.String())
	}
	return nil
}

// cellMark renders a cell's dominant flag, a dash for unreported days and a
// blank for empty cells on days that demand nothing.
func cellMark(cell core.Cell) string {
	switch cell.Dominant() {
	case "vacation":
		return "V"
	case "holiday":
		return "H"
	case "work":
		if cell.Unreported {
			return "w" // partial day
		}
		return "W"
	}
	if cell.Unreported {
		return "-"
	}
	return "."
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
