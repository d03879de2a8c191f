package domain

// Story statuses as stored in the backend.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Story is a backend-resident story record. Empty strings and JSON nulls are
// both treated as absent values.
type Story struct {
	ID            int64  `json:"id"`
	Name          string `json:"story_name"`
	Input         string `json:"story_input"`
	BodyHTML      string `json:"body_html"`
	ContentHTML   string `json:"story_content_html"`
	ImageURL      string `json:"uploadcare_url"`
	AuthorPhoto   string `json:"author_photo"`
	AuthorName    string `json:"author_name"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	DocumentURL   string `json:"document_url"`
	WebflowItemID string `json:"webflow_item_id"`

	// DecodeErr is set when the record came back with a field of an
	// unexpected type. The other fields hold whatever did decode.
	DecodeErr error `json:"-"`
}

// Column names of the stories table that the field mapping reads from.
const (
	ColumnName          = "story_name"
	ColumnInput         = "story_input"
	ColumnBodyHTML      = "body_html"
	ColumnContentHTML   = "story_content_html"
	ColumnImageURL      = "uploadcare_url"
	ColumnAuthorPhoto   = "author_photo"
	ColumnAuthorName    = "author_name"
	ColumnCategory      = "category"
	ColumnStatus        = "status"
	ColumnDocumentURL   = "document_url"
	ColumnWebflowItemID = "webflow_item_id"
	ColumnWebflowSynced = "webflow_synced_at"
)

// Field returns the value of the named column, or "" for unknown columns.
func (s *Story) Field(column string) string {
	switch column {
	case ColumnName:
		return s.Name
	case ColumnInput:
		return s.Input
	case ColumnBodyHTML:
		return s.BodyHTML
	case ColumnContentHTML:
		return s.ContentHTML
	case ColumnImageURL:
		return s.ImageURL
	case ColumnAuthorPhoto:
		return s.AuthorPhoto
	case ColumnAuthorName:
		return s.AuthorName
	case ColumnCategory:
		return s.Category
	case ColumnStatus:
		return s.Status
	case ColumnDocumentURL:
		return s.DocumentURL
	case ColumnWebflowItemID:
		return s.WebflowItemID
	}
	return ""
}

// Linked reports whether the story already points at a CMS item.
func (s *Story) Linked() bool {
	return s.WebflowItemID != ""
}

// Published reports whether the story should be live on the CMS.
func (s *Story) Published() bool {
	return s.Status == StatusPublished
}

// FieldData is the CMS item field bag keyed by collection field slug.
type FieldData map[string]any
