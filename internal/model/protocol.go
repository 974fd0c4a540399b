package model

// Attachment limits enforced at the ingestion boundary.
const (
	MaxAttachmentSize  = 400 * 1024 // bytes
	MaxAttachmentCount = 3
)

// Protocol is an emergency-protocol entry: an announcement with optional
// attachments and @-mentions. Unrelated to network protocols.
type Protocol struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	AuthorID      string   `json:"authorId,omitempty"`
	TaggedUserIDs []string `json:"taggedUserIds"`
	FileIDs       []string `json:"fileIds"`
	CreatedAt     int64    `json:"createdAt"`
}

// Attachment is owned exclusively by the protocol that created it.
// Content is carried inline and base64-encoded on the wire.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Content  []byte `json:"content"`
}
