package entity

// SourceFile is the user-selected image exactly as received. It is owned by
// the upload orchestrator for the duration of a single attempt.
type SourceFile struct {
	Data      []byte
	Filename  string
	MediaType string
	Size      int64
}

// UploadRecord identifies one successfully stored and registered upload.
type UploadRecord struct {
	ID               string `json:"id"`
	StoragePath      string `json:"storage_path"`
	PublicURL        string `json:"public_url"`
	OriginalFilename string `json:"original_filename"`
}

type UploadResponse struct {
	ID          string             `json:"id"`
	PublicURL   string             `json:"public_url"`
	Status      string             `json:"status"`
	Compression *CompressionResult `json:"compression,omitempty"`
}
