package reader

import (
	"context"
	"strconv"

	"github.com/blackwell-systems/readerctl/internal/api"
)

// ProgressService manages per-book reading positions.
type ProgressService struct {
	client *api.Client
	ident  Identity
}

// NewProgressService creates a ProgressService.
func NewProgressService(client *api.Client, ident Identity) *ProgressService {
	return &ProgressService{client: client, ident: ident}
}

// ProgressUpdate is the upsert payload for a reading position. The server
// creates the record on the first report and updates it in place after.
type ProgressUpdate struct {
	BookUUID    string  `json:"book_uuid"`
	CurrentPage int     `json:"current_page"`
	Position    int     `json:"position"`
	Percentage  float64 `json:"percentage"`
	Completed   bool    `json:"completed"`
}

// List fetches one page of the user's reading positions.
func (s *ProgressService) List(ctx context.Context, page, perPage int) ([]ReadingProgress, api.PageMeta, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, api.PageMeta{}, err
	}
	var items []ReadingProgress
	meta, err := s.client.CallPage(ctx, "reading_progress.list", nil, pageQuery(page, perPage), &items)
	if err != nil {
		return nil, api.PageMeta{}, err
	}
	return items, meta, nil
}

// Get fetches a single reading position by id.
func (s *ProgressService) Get(ctx context.Context, id int64) (*ReadingProgress, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var p ReadingProgress
	if err := s.client.Call(ctx, "reading_progress.get", map[string]string{"id": strconv.FormatInt(id, 10)}, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update reports a reading position. The id addresses the record; the
// payload carries the new position.
func (s *ProgressService) Update(ctx context.Context, id int64, upd ProgressUpdate) (*ReadingProgress, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	if upd.Percentage < 0 || upd.Percentage > 100 {
		return nil, &api.Error{Kind: api.KindValidation, Message: "percentage must be between 0 and 100"}
	}
	var p ReadingProgress
	if err := s.client.Call(ctx, "reading_progress.update", map[string]string{"id": strconv.FormatInt(id, 10)}, nil, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a reading position, resetting the book to unread.
func (s *ProgressService) Delete(ctx context.Context, id int64) error {
	if _, err := s.ident.RequireUserID(); err != nil {
		return err
	}
	return s.client.Call(ctx, "reading_progress.delete", map[string]string{"id": strconv.FormatInt(id, 10)}, nil, nil, nil)
}
