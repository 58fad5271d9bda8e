// Package tui provides the interactive pieces of readerctl, currently a
// filterable book picker used when a command needs a book and none was
// named on the command line.
package tui

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/readerctl/internal/reader"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// BookItem wraps a Book for display in the picker list.
type BookItem struct {
	Book reader.Book
}

// FilterValue feeds the list's fuzzy filter.
func (b BookItem) FilterValue() string {
	return b.Book.Title + " " + b.Book.Author
}

type bookDelegate struct{}

func (bookDelegate) Height() int                         { return 1 }
func (bookDelegate) Spacing() int                        { return 0 }
func (bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (bookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(BookItem)
	if !ok {
		return
	}
	title := bi.Book.Title
	meta := ""
	if bi.Book.Author != "" {
		meta = StyleMeta.Render(" - " + bi.Book.Author)
	}
	progress := ""
	if p := bi.Book.Progress; p != nil {
		if p.Completed {
			progress = StyleDone.Render("  ✓ finished")
		} else {
			progress = StyleHelp.Render(fmt.Sprintf("  %.0f%%", p.Percentage))
		}
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+title)+meta+progress)
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(title)+meta+progress)
	}
}

type bookPickerModel struct {
	list     list.Model
	selected *BookItem
	canceled bool
}

func (m bookPickerModel) Init() tea.Cmd {
	return nil
}

func (m bookPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(BookItem); ok {
				m.selected = &item
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m bookPickerModel) View() string {
	return m.list.View()
}

// RunBookPicker launches an interactive book picker.
// Returns the selected book or an error if the user canceled.
func RunBookPicker(books []reader.Book, title string) (reader.Book, error) {
	if len(books) == 0 {
		return reader.Book{}, fmt.Errorf("no books to display")
	}

	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = BookItem{Book: b}
	}

	l := list.New(items, bookDelegate{}, 0, 0)
	if title == "" {
		title = "Select a book"
	}
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		)}
	}

	p := tea.NewProgram(bookPickerModel{list: l}, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return reader.Book{}, fmt.Errorf("running picker: %w", err)
	}

	fm, ok := finalModel.(bookPickerModel)
	if !ok || fm.canceled || fm.selected == nil {
		return reader.Book{}, fmt.Errorf("canceled")
	}
	return fm.selected.Book, nil
}
