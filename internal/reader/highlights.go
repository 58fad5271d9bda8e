package reader

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/readerctl/internal/api"
)

// HighlightsService manages saved excerpts.
type HighlightsService struct {
	client *api.Client
	ident  Identity
}

// NewHighlightsService creates a HighlightsService.
func NewHighlightsService(client *api.Client, ident Identity) *HighlightsService {
	return &HighlightsService{client: client, ident: ident}
}

// HighlightCreate is the payload for a new highlight.
type HighlightCreate struct {
	BookUUID    string         `json:"book_uuid"`
	StartOffset int            `json:"start_offset"`
	EndOffset   int            `json:"end_offset"`
	Text        string         `json:"text"`
	Color       HighlightColor `json:"color"`
	Note        string         `json:"note,omitempty"`
}

// HighlightUpdate carries editable highlight fields. Nil fields are kept.
type HighlightUpdate struct {
	Color *HighlightColor `json:"color,omitempty"`
	Note  *string         `json:"note,omitempty"`
}

// ShareLink is the public URL minted by highlights.share.
type ShareLink struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Create saves a new highlight. Offsets and color are validated locally
// before any network call.
func (s *HighlightsService) Create(ctx context.Context, hc HighlightCreate) (*Highlight, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	if hc.EndOffset <= hc.StartOffset || hc.StartOffset < 0 {
		return nil, &api.Error{
			Kind:    api.KindValidation,
			Message: fmt.Sprintf("invalid highlight range [%d, %d)", hc.StartOffset, hc.EndOffset),
		}
	}
	if hc.Color == "" {
		hc.Color = ColorYellow
	}
	if !ValidColor(hc.Color) {
		return nil, &api.Error{Kind: api.KindValidation, Message: fmt.Sprintf("unsupported color %q", hc.Color)}
	}
	var h Highlight
	if err := s.client.Call(ctx, "highlights.create", nil, nil, hc, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Get fetches a single highlight.
func (s *HighlightsService) Get(ctx context.Context, uuid string) (*Highlight, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var h Highlight
	if err := s.client.Call(ctx, "highlights.get", map[string]string{"uuid": uuid}, nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Update edits a highlight's color or note.
func (s *HighlightsService) Update(ctx context.Context, uuid string, upd HighlightUpdate) (*Highlight, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	if upd.Color != nil && !ValidColor(*upd.Color) {
		return nil, &api.Error{Kind: api.KindValidation, Message: fmt.Sprintf("unsupported color %q", *upd.Color)}
	}
	var h Highlight
	if err := s.client.Call(ctx, "highlights.update", map[string]string{"uuid": uuid}, nil, upd, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Delete removes a highlight.
func (s *HighlightsService) Delete(ctx context.Context, uuid string) error {
	if _, err := s.ident.RequireUserID(); err != nil {
		return err
	}
	return s.client.Call(ctx, "highlights.delete", map[string]string{"uuid": uuid}, nil, nil, nil)
}

// ToggleFavorite flips the favorite flag and returns the updated record.
func (s *HighlightsService) ToggleFavorite(ctx context.Context, uuid string) (*Highlight, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var h Highlight
	if err := s.client.Call(ctx, "highlights.toggle_favorite", map[string]string{"uuid": uuid}, nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Share mints a public link for a highlight.
func (s *HighlightsService) Share(ctx context.Context, uuid string) (*ShareLink, error) {
	if _, err := s.ident.RequireUserID(); err != nil {
		return nil, err
	}
	var link ShareLink
	if err := s.client.Call(ctx, "highlights.share", map[string]string{"uuid": uuid}, nil, nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}
