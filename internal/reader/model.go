// Package reader holds the domain model of the reading companion and the
// resource services built on the API client.
package reader

import "time"

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

// UserProfile is the server-side account record, cached locally alongside
// the bearer token and refreshed on every session restore.
type UserProfile struct {
	UUID      string        `json:"uuid"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Verified  bool          `json:"verified"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FileType is the format of an uploaded book.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeEPUB FileType = "epub"
	FileTypeTXT  FileType = "txt"
)

// ProcessingStatus tracks server-side text extraction for a book.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingRunning   ProcessingStatus = "processing"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// Book is one entry in the user's library. Progress and HighlightCount
// are optional summaries the list endpoint may embed.
type Book struct {
	UUID           string           `json:"uuid"`
	Title          string           `json:"title"`
	Author         string           `json:"author,omitempty"`
	ISBN           string           `json:"isbn,omitempty"`
	FileType       FileType         `json:"file_type"`
	Status         ProcessingStatus `json:"processing_status"`
	SizeBytes      int64            `json:"size_bytes,omitempty"`
	PageCount      int              `json:"page_count,omitempty"`
	Progress       *ReadingProgress `json:"reading_progress,omitempty"`
	HighlightCount int              `json:"highlight_count,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ReadingProgress is the per-(user,book) reading position. The server
// upserts: the first report creates it, later reports update in place.
type ReadingProgress struct {
	ID          int64      `json:"id"`
	BookUUID    string     `json:"book_uuid"`
	CurrentPage int        `json:"current_page"`
	Position    int        `json:"position"`
	Percentage  float64    `json:"percentage"`
	Completed   bool       `json:"completed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	LastReadAt  *time.Time `json:"last_read_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// HighlightColor is one of the six supported marker colors.
type HighlightColor string

const (
	ColorYellow HighlightColor = "yellow"
	ColorGreen  HighlightColor = "green"
	ColorBlue   HighlightColor = "blue"
	ColorPink   HighlightColor = "pink"
	ColorPurple HighlightColor = "purple"
	ColorOrange HighlightColor = "orange"
)

// ValidColor reports whether c is one of the supported highlight colors.
func ValidColor(c HighlightColor) bool {
	switch c {
	case ColorYellow, ColorGreen, ColorBlue, ColorPink, ColorPurple, ColorOrange:
		return true
	}
	return false
}

// Highlight is a saved excerpt: character offsets into the book text plus
// the literal text and optional note.
type Highlight struct {
	UUID        string         `json:"uuid"`
	BookUUID    string         `json:"book_uuid"`
	StartOffset int            `json:"start_offset"`
	EndOffset   int            `json:"end_offset"`
	Text        string         `json:"text"`
	Color       HighlightColor `json:"color"`
	Note        string         `json:"note,omitempty"`
	Favorite    bool           `json:"favorite"`
	TextLength  int            `json:"text_length"`
	WordCount   int            `json:"word_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UserStats is the aggregate reading summary from users.stats.
type UserStats struct {
	TotalBooks      int     `json:"total_books"`
	BooksCompleted  int     `json:"books_completed"`
	TotalHighlights int     `json:"total_highlights"`
	PagesRead       int     `json:"pages_read"`
	AvgProgress     float64 `json:"avg_progress"`
}

// PresignedUpload is the slot returned by users.presigned_upload for
// pushing a new book file directly to object storage.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	BookUUID  string            `json:"book_uuid"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}
