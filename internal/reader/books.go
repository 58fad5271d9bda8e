package reader

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/blackwell-systems/readerctl/internal/api"
)

// Identity resolves the authenticated user. Satisfied by session.Manager.
type Identity interface {
	RequireUserID() (string, error)
}

// BooksService exposes the library operations. Every call resolves the
// current user first and fails fast without touching the network when no
// session exists.
type BooksService struct {
	client *api.Client
	ident  Identity
}

// NewBooksService creates a BooksService.
func NewBooksService(client *api.Client, ident Identity) *BooksService {
	return &BooksService{client: client, ident: ident}
}

// BookUpdate carries the editable book fields. Nil fields are left as-is.
type BookUpdate struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	ISBN   *string `json:"isbn,omitempty"`
}

// List fetches one page of the user's library.
func (s *BooksService) List(ctx context.Context, page, perPage int) ([]Book, api.PageMeta, error) {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return nil, api.PageMeta{}, err
	}
	var books []Book
	meta, err := s.client.CallPage(ctx, "users.books",
		map[string]string{"uuid": userID}, pageQuery(page, perPage), &books)
	if err != nil {
		return nil, api.PageMeta{}, err
	}
	return books, meta, nil
}

// Get fetches a single book.
func (s *BooksService) Get(ctx context.Context, bookUUID string) (*Book, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var b Book
	if err := s.client.Call(ctx, "books.get", map[string]string{"uuid": bookUUID}, nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update edits book metadata.
func (s *BooksService) Update(ctx context.Context, bookUUID string, upd BookUpdate) (*Book, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var b Book
	if err := s.client.Call(ctx, "books.update", map[string]string{"uuid": bookUUID}, nil, upd, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a book and everything attached to it.
func (s *BooksService) Delete(ctx context.Context, bookUUID string) error {
	if _, err := s.ident.RequireUserID(); err != nil {
		return err
	}
	return s.client.Call(ctx, "books.delete", map[string]string{"uuid": bookUUID}, nil, nil, nil)
}

// Process asks the server to (re)run text extraction for a book.
func (s *BooksService) Process(ctx context.Context, bookUUID string) (*Book, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var b Book
	if err := s.client.Call(ctx, "books.process", map[string]string{"uuid": bookUUID}, nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Content streams the extracted book text. The caller closes the reader.
func (s *BooksService) Content(ctx context.Context, bookUUID string) (io.ReadCloser, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	return s.client.Download(ctx, "books.content", map[string]string{"uuid": bookUUID})
}

// Highlights fetches one page of a book's highlights.
func (s *BooksService) Highlights(ctx context.Context, bookUUID string, page, perPage int) ([]Highlight, api.PageMeta, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, api.PageMeta{}, err
	}
	var hs []Highlight
	meta, err := s.client.CallPage(ctx, "books.highlights",
		map[string]string{"uuid": bookUUID}, pageQuery(page, perPage), &hs)
	if err != nil {
		return nil, api.PageMeta{}, err
	}
	return hs, meta, nil
}

// Progress fetches the reading progress for a book, or nil when reading
// has not started yet.
func (s *BooksService) Progress(ctx context.Context, bookUUID string) (*ReadingProgress, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var p ReadingProgress
	err := s.client.Call(ctx, "books.reading_progress", map[string]string{"uuid": bookUUID}, nil, nil, &p)
	if err != nil {
		if api.AsError(err).Kind == api.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}
