package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chris/growthcoach/internal/journal"
	"github.com/chris/growthcoach/internal/sheets"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

const defaultTitle = "Growth Coach"

func newYesterdayCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "yesterday",
		Short: "Print yesterday's journal row",
		Example: `
coach yesterday
coach yesterday --date 2025-11-26
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				j := a.journal()
				var row journal.Row
				var err error
				if date != "" {
					d, perr := time.ParseInLocation(journal.DateLayout, date, time.Local)
					if perr != nil {
						return fmt.Errorf("--date must be YYYY-MM-DD: %w", perr)
					}
					row, err = j.FindRowForDate(ctx, d)
				} else {
					row, err = j.Yesterday(ctx, time.Now())
				}
				if err != nil {
					return err
				}
				if row.Len() == 0 {
					fmt.Fprintln(color.Output, color.New(color.Faint).Sprint("no entry"))
					return nil
				}
				b, err := json.MarshalIndent(row, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(color.Output, string(b))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "look up this date instead of yesterday (YYYY-MM-DD)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print every journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				rows, err := a.journal().Entries(ctx)
				if err != nil {
					return err
				}
				printEntries(rows, time.Now())
				return nil
			})
		},
	}
}

// printEntries renders entries under their header, with a relative "when"
// column derived from the date.
func printEntries(rows []journal.Row, now time.Time) {
	if len(rows) == 0 {
		fmt.Fprintln(color.Output, color.New(color.Faint).Sprint("no entries yet"))
		return
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	keys := rows[0].Keys()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 40

	header := []interface{}{bold.Sprint("When")}
	for _, k := range keys {
		header = append(header, bold.Sprint(k))
	}
	tbl.AddRow(header...)

	for _, r := range rows {
		values := r.Map()
		cells := []interface{}{faint.Sprint(when(r, now))}
		for _, k := range keys {
			cells = append(cells, values[k])
		}
		tbl.AddRow(cells...)
	}
	fmt.Fprintln(color.Output, tbl)
}

func when(r journal.Row, now time.Time) string {
	v, _ := r.Get(journal.DateColumn)
	d, err := time.ParseInLocation(journal.DateLayout, v, now.Location())
	if err != nil {
		return ""
	}
	return humanize.RelTime(d, now, "ago", "from now")
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [title]",
		Short: "Create the journal spreadsheet, or write the header into the configured one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				id := a.cfg.SpreadsheetID
				if id == "" {
					title := defaultTitle
					if len(args) == 1 {
						title = args[0]
					}
					var err error
					id, err = a.store.CreateSpreadsheet(ctx, title, []string{"Sheet1"})
					if err != nil {
						return err
					}
					fmt.Fprintf(color.Output, "created spreadsheet %s\nset GROWTH_COACH_SSID=%s\n", color.GreenString(title), id)
				}
				wrote, err := journal.New(a.store, id, journal.WithRanges(a.cfg.ReadRange, a.cfg.AppendRange)).Init(ctx)
				if err != nil {
					return err
				}
				if wrote {
					fmt.Fprintln(color.Output, "wrote header row")
				} else {
					fmt.Fprintln(color.Output, "header already present")
				}
				return nil
			})
		},
	}
}

func newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect or clear the configured spreadsheet",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Print spreadsheet metadata",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					md, err := a.store.Metadata(ctx, a.cfg.SpreadsheetID)
					if err != nil {
						return err
					}
					printMetadata(md)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:     "read <range>",
			Short:   "Print the cells of an A1 range",
			Example: "coach sheet read 'Sheet1!A1:D10'",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					rows, err := a.store.ReadRange(ctx, a.cfg.SpreadsheetID, args[0])
					if err != nil {
						return err
					}
					tbl := uitable.New()
					tbl.Separator = "  "
					for _, row := range rows {
						cells := make([]interface{}, len(row))
						for i, c := range row {
							cells[i] = c
						}
						tbl.AddRow(cells...)
					}
					fmt.Fprintln(color.Output, tbl)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear <range>",
			Short: "Clear the values of an A1 range",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					cleared, err := a.store.ClearRange(ctx, a.cfg.SpreadsheetID, args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(color.Output, "cleared %s\n", color.YellowString(cleared))
					return nil
				})
			},
		},
	)
	return cmd
}

func printMetadata(md *sheets.Metadata) {
	bold := color.New(color.Bold)
	fmt.Fprintln(color.Output, bold.Sprint(md.Title))
	if md.URL != "" {
		fmt.Fprintln(color.Output, md.URL)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("Sheet"), bold.Sprint("Rows"), bold.Sprint("Columns"))
	for _, s := range md.Sheets {
		tbl.AddRow(s.Index, s.Title, humanize.Comma(s.RowCount), s.ColumnCount)
	}
	tbl.RightAlign(0)
	fmt.Fprintln(color.Output, tbl)
}
