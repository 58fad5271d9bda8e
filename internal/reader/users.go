package reader

import (
	"context"

	"github.com/blackwell-systems/readerctl/internal/api"
)

// UsersService exposes account-level operations for the current user.
type UsersService struct {
	client *api.Client
	ident  Identity
}

// NewUsersService creates a UsersService.
func NewUsersService(client *api.Client, ident Identity) *UsersService {
	return &UsersService{client: client, ident: ident}
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Get fetches the current user's profile from the server.
func (s *UsersService) Get(ctx context.Context) (*UserProfile, error) {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return nil, err
	}
	var p UserProfile
	if err := s.client.Call(ctx, "users.get", map[string]string{"uuid": userID}, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update edits the current user's profile.
func (s *UsersService) Update(ctx context.Context, upd ProfileUpdate) (*UserProfile, error) {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return nil, err
	}
	var p UserProfile
	if err := s.client.Call(ctx, "users.update", map[string]string{"uuid": userID}, nil, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete permanently removes the account.
func (s *UsersService) Delete(ctx context.Context) error {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return err
	}
	return s.client.Call(ctx, "users.delete", map[string]string{"uuid": userID}, nil, nil, nil)
}

// RegisterDevice records this device for the account.
func (s *UsersService) RegisterDevice(ctx context.Context, deviceID, platform string) error {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return err
	}
	body := map[string]string{"device_id": deviceID, "platform": platform}
	return s.client.Call(ctx, "users.register_device", map[string]string{"uuid": userID}, nil, body, nil)
}

// Stats fetches the aggregate reading summary.
func (s *UsersService) Stats(ctx context.Context) (*UserStats, error) {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return nil, err
	}
	var st UserStats
	if err := s.client.Call(ctx, "users.stats", map[string]string{"uuid": userID}, nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PresignedUpload requests an upload slot for a new book file.
func (s *UsersService) PresignedUpload(ctx context.Context, filename string, fileType FileType) (*PresignedUpload, error) {
	userID, err := s.ident.RequireUserID()
	if err != nil {
		return nil, err
	}
	body := map[string]string{"filename": filename, "file_type": string(fileType)}
	var slot PresignedUpload
	if err := s.client.Call(ctx, "users.presigned_upload", map[string]string{"uuid": userID}, nil, body, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}
