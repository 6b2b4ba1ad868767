package entity

// CompressionResult describes the outcome of one compression pass.
// Ratio is OriginalSize/CompressedSize and equals 1 when compression was
// skipped or failed, in which case Data holds the source bytes unchanged.
type CompressionResult struct {
	Data           []byte  `json:"-"`
	Ext            string  `json:"ext"`
	CompressedSize int64   `json:"compressed_size"`
	OriginalSize   int64   `json:"original_size"`
	Ratio          float64 `json:"ratio"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	OriginalWidth  int     `json:"original_width,omitempty"`
	OriginalHeight int     `json:"original_height,omitempty"`
	Skipped        bool    `json:"skipped"`
	Err            string  `json:"error,omitempty"`
}
