package app

import (
	"fmt"
	"strconv"

	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track reading progress",
	}
	cmd.AddCommand(
		newProgressListCmd(),
		newProgressSetCmd(),
		newProgressDeleteCmd(),
	)
	return cmd
}

func newProgressListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reading positions across your library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			items, meta, err := progress.List(cmd.Context(), page, cfg.Defaults.PageSize)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				warn("no reading progress recorded yet")
				return nil
			}
			for _, p := range items {
				state := color.CyanString("%.0f%%", p.Percentage)
				if p.Completed {
					state = color.GreenString("finished")
				}
				last := ""
				if p.LastReadAt != nil {
					last = color.New(color.Faint).Sprintf("  last read %s", p.LastReadAt.Format("2006-01-02"))
				}
				fmt.Printf("%-8d %-38s page %-5d %s%s\n", p.ID, p.BookUUID, p.CurrentPage, state, last)
			}
			pageFooter(meta)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch")
	return cmd
}

func newProgressSetCmd() *cobra.Command {
	var (
		bookUUID  string
		pageNum   int
		position  int
		percent   float64
		completed bool
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Report a reading position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid progress id %q", args[0])
			}
			p, err := progress.Update(cmd.Context(), id, reader.ProgressUpdate{
				BookUUID:    bookUUID,
				CurrentPage: pageNum,
				Position:    position,
				Percentage:  percent,
				Completed:   completed,
			})
			if err != nil {
				return err
			}
			if p.Completed {
				ok("marked as finished")
			} else {
				ok("progress saved: page %d (%.0f%%)", p.CurrentPage, p.Percentage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bookUUID, "book", "", "Book uuid the position belongs to")
	cmd.Flags().IntVar(&pageNum, "page", 0, "Current page")
	cmd.Flags().IntVar(&position, "position", 0, "Character position in the text")
	cmd.Flags().Float64Var(&percent, "percent", 0, "Percentage read (0-100)")
	cmd.Flags().BoolVar(&completed, "done", false, "Mark the book as finished")
	_ = cmd.MarkFlagRequired("book")
	return cmd
}

func newProgressDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a reading position, resetting the book to unread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid progress id %q", args[0])
			}
			if err := progress.Delete(cmd.Context(), id); err != nil {
				return err
			}
			ok("progress removed")
			return nil
		},
	}
}
