package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/blackwell-systems/readerctl/internal/tui"
	"github.com/blackwell-systems/readerctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage your library",
	}
	cmd.AddCommand(
		newBooksListCmd(),
		newBooksInfoCmd(),
		newBooksUploadCmd(),
		newBooksOpenCmd(),
		newBooksProcessCmd(),
		newBooksEditCmd(),
		newBooksDeleteCmd(),
		newBooksCacheCmd(),
	)
	return cmd
}

func newBooksListCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the books in your library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			items, meta, err := books.List(cmd.Context(), page, cfg.Defaults.PageSize)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				warn("library is empty; upload books from the reader app")
				return nil
			}
			for _, b := range items {
				printBookLine(b)
			}
			pageFooter(meta)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch")
	return cmd
}

func printBookLine(b reader.Book) {
	status := ""
	switch b.Status {
	case reader.ProcessingCompleted:
		// ready to read, no marker needed
	case reader.ProcessingFailed:
		status = color.RedString(" [processing failed]")
	default:
		status = color.YellowString(" [%s]", b.Status)
	}
	progressStr := ""
	if p := b.Progress; p != nil {
		if p.Completed {
			progressStr = color.GreenString("  ✓")
		} else {
			progressStr = color.CyanString("  %.0f%%", p.Percentage)
		}
	}
	author := ""
	if b.Author != "" {
		author = color.CyanString(" - %s", b.Author)
	}
	fmt.Printf("%-38s %s%s%s%s\n", b.UUID, b.Title, author, status, progressStr)
}

// resolveBook returns the book named by args, or launches the picker when
// running interactively without an argument.
func resolveBook(cmd *cobra.Command, args []string) (*reader.Book, error) {
	if len(args) > 0 {
		return books.Get(cmd.Context(), args[0])
	}
	if flagNoInteractive || !util.IsTTY() {
		return nil, fmt.Errorf("a book uuid is required (or run interactively to pick one)")
	}

	var all []reader.Book
	for page := 1; ; page++ {
		items, meta, err := books.List(cmd.Context(), page, cfg.Defaults.PageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if !meta.HasMore() {
			break
		}
	}
	picked, err := tui.RunBookPicker(all, "Select a book")
	if err != nil {
		return nil, err
	}
	return &picked, nil
}

func newBooksInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [uuid]",
		Short: "Show book details",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			b, err := resolveBook(cmd, args)
			if err != nil {
				return err
			}
			header("%s", b.Title)
			fmt.Printf("  %-12s %s\n", "uuid:", b.UUID)
			if b.Author != "" {
				fmt.Printf("  %-12s %s\n", "author:", b.Author)
			}
			if b.ISBN != "" {
				fmt.Printf("  %-12s %s\n", "isbn:", b.ISBN)
			}
			fmt.Printf("  %-12s %s\n", "format:", b.FileType)
			fmt.Printf("  %-12s %s\n", "processing:", b.Status)
			if b.PageCount > 0 {
				fmt.Printf("  %-12s %d\n", "pages:", b.PageCount)
			}
			if b.SizeBytes > 0 {
				fmt.Printf("  %-12s %.1f MiB\n", "size:", float64(b.SizeBytes)/(1<<20))
			}
			fmt.Printf("  %-12s %d\n", "highlights:", b.HighlightCount)
			if p := b.Progress; p != nil {
				if p.Completed {
					fmt.Printf("  %-12s %s\n", "progress:", color.GreenString("finished"))
				} else {
					fmt.Printf("  %-12s page %d (%.0f%%)\n", "progress:", p.CurrentPage, p.Percentage)
				}
			}
			fmt.Printf("  %-12s %v\n", "cached:", cacheMgr.Exists(b.UUID, contentFilename(b)))
			return nil
		},
	}
}

func contentFilename(b *reader.Book) string {
	return "content." + string(b.FileType) + ".txt"
}

var fileTypes = map[string]reader.FileType{
	".pdf":  reader.FileTypePDF,
	".epub": reader.FileTypeEPUB,
	".txt":  reader.FileTypeTXT,
}

func newBooksUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a book file to your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			fileType, known := fileTypes[strings.ToLower(filepath.Ext(args[0]))]
			if !known {
				return fmt.Errorf("unsupported file type %q (pdf, epub, or txt)", filepath.Ext(args[0]))
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			slot, err := users.PresignedUpload(cmd.Context(), filepath.Base(args[0]), fileType)
			if err != nil {
				return err
			}

			// The upload goes straight to object storage, not through the API.
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPut, slot.UploadURL, f)
			if err != nil {
				return err
			}
			req.ContentLength = info.Size()
			for k, v := range slot.Headers {
				req.Header.Set(k, v)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("uploading file: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return fmt.Errorf("upload rejected with HTTP %d", resp.StatusCode)
			}

			b, err := books.Process(cmd.Context(), slot.BookUUID)
			if err != nil {
				return err
			}
			ok("uploaded %q (%s), processing %s", filepath.Base(args[0]), slot.BookUUID, b.Status)
			return nil
		},
	}
}

func newBooksOpenCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "open [uuid]",
		Short: "Download a book's extracted text into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			b, err := resolveBook(cmd, args)
			if err != nil {
				return err
			}
			if b.Status != reader.ProcessingCompleted {
				return fmt.Errorf("book %q is not processed yet (status: %s)", b.Title, b.Status)
			}

			filename := contentFilename(b)
			if cacheMgr.Exists(b.UUID, filename) && !refresh {
				fmt.Println(cacheMgr.Path(b.UUID, filename))
				return nil
			}

			body, err := books.Content(cmd.Context(), b.UUID)
			if err != nil {
				return err
			}
			defer func() { _ = body.Close() }()

			path, err := cacheMgr.Store(b.UUID, filename, body)
			if err != nil {
				return err
			}
			ok("downloaded %q", b.Title)
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-download even when cached")
	return cmd
}

func newBooksProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <uuid>",
		Short: "Ask the server to (re)run text extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			b, err := books.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ok("processing queued for %q (status: %s)", b.Title, b.Status)
			return nil
		},
	}
}

func newBooksEditCmd() *cobra.Command {
	var (
		title  string
		author string
		isbn   string
	)

	cmd := &cobra.Command{
		Use:   "edit <uuid>",
		Short: "Edit book metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			upd := reader.BookUpdate{}
			if cmd.Flags().Changed("title") {
				upd.Title = &title
			}
			if cmd.Flags().Changed("author") {
				upd.Author = &author
			}
			if cmd.Flags().Changed("isbn") {
				upd.ISBN = &isbn
			}
			if upd.Title == nil && upd.Author == nil && upd.ISBN == nil {
				return fmt.Errorf("nothing to change: pass --title, --author, or --isbn")
			}
			b, err := books.Update(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			ok("updated %q", b.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&author, "author", "", "New author")
	cmd.Flags().StringVar(&isbn, "isbn", "", "New ISBN")
	return cmd
}

func newBooksCacheCmd() *cobra.Command {
	var clear string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear the local content cache",
		RunE: func(_ *cobra.Command, _ []string) error {
			if clear != "" {
				if err := cacheMgr.Remove(clear); err != nil {
					return err
				}
				ok("cleared cached content for %s", clear)
				return nil
			}
			size, err := cacheMgr.Size()
			if err != nil {
				return err
			}
			fmt.Printf("%s: %.1f MiB\n", cfg.Defaults.CacheDir, float64(size)/(1<<20))
			return nil
		},
	}

	cmd.Flags().StringVar(&clear, "clear", "", "Remove cached content for a book uuid")
	return cmd
}

func newBooksDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a book and its highlights and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}
			if !yes {
				answer, err := promptLine(fmt.Sprintf("Delete book %s? (y/N)", args[0]), "n")
				if err != nil {
					return err
				}
				if answer != "y" && answer != "Y" && answer != "yes" {
					warn("canceled")
					return nil
				}
			}
			if err := books.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := cacheMgr.Remove(args[0]); err != nil {
				warn("removing cached content: %v", err)
			}
			ok("book deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
