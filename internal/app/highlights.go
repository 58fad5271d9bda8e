package app

import (
	"fmt"

	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHighlightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "highlights",
		Aliases: []string{"hl"},
		Short:   "Manage highlights",
	}
	cmd.AddCommand(
		newHighlightsListCmd(),
		newHighlightsAddCmd(),
		newHighlightsNoteCmd(),
		newHighlightsFavoriteCmd(),
		newHighlightsShareCmd(),
		newHighlightsDeleteCmd(),
	)
	return cmd
}

func newHighlightsListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list [book-uuid]",
		Short: "List highlights for a book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			b, err := resolveBook(cmd, args)
			if err != nil {
				return err
			}
			items, meta, err := books.Highlights(cmd.Context(), b.UUID, page, cfg.Defaults.PageSize)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				warn("no highlights in %q yet", b.Title)
				return nil
			}
			header("Highlights: %s", b.Title)
			for _, h := range items {
				printHighlight(h)
			}
			pageFooter(meta)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch")
	return cmd
}

func printHighlight(h reader.Highlight) {
	marker := colorMarker(h.Color)
	fav := ""
	if h.Favorite {
		fav = color.YellowString(" ★")
	}
	fmt.Printf("%s %s%s\n", marker, h.UUID, fav)
	fmt.Printf("    %q\n", h.Text)
	if h.Note != "" {
		fmt.Printf("    note: %s\n", h.Note)
	}
	fmt.Printf("    %s\n", color.New(color.Faint).Sprintf("chars %d–%d, %d words",
		h.StartOffset, h.EndOffset, h.WordCount))
}

func colorMarker(c reader.HighlightColor) string {
	switch c {
	case reader.ColorGreen:
		return color.GreenString("▎")
	case reader.ColorBlue:
		return color.BlueString("▎")
	case reader.ColorPink, reader.ColorPurple:
		return color.MagentaString("▎")
	case reader.ColorOrange:
		return color.RedString("▎")
	default:
		return color.YellowString("▎")
	}
}

func newHighlightsAddCmd() *cobra.Command {
	var (
		start    int
		end      int
		text     string
		colorArg string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add <book-uuid>",
		Short: "Save a new highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			h, err := highlights.Create(cmd.Context(), reader.HighlightCreate{
				BookUUID:    args[0],
				StartOffset: start,
				EndOffset:   end,
				Text:        text,
				Color:       reader.HighlightColor(colorArg),
				Note:        note,
			})
			if err != nil {
				return err
			}
			ok("highlight saved (%s)", h.UUID)
			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "Start character offset")
	cmd.Flags().IntVar(&end, "end", 0, "End character offset")
	cmd.Flags().StringVar(&text, "text", "", "Highlighted text")
	cmd.Flags().StringVar(&colorArg, "color", "yellow", "Color: yellow|green|blue|pink|purple|orange")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newHighlightsNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <uuid> <text>",
		Short: "Attach or replace the note on a highlight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			note := args[1]
			_, err := highlights.Update(cmd.Context(), args[0], reader.HighlightUpdate{Note: &note})
			if err != nil {
				return err
			}
			ok("note saved")
			return nil
		},
	}
}

func newHighlightsFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <uuid>",
		Short: "Toggle the favorite flag on a highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			h, err := highlights.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if h.Favorite {
				ok("marked as favorite")
			} else {
				ok("removed from favorites")
			}
			return nil
		},
	}
}

func newHighlightsShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <uuid>",
		Short: "Create a public link for a highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			link, err := highlights.Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(link.URL)
			return nil
		},
	}
}

func newHighlightsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a highlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			if err := highlights.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			ok("highlight deleted")
			return nil
		},
	}
}
