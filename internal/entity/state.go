package entity

// OperationState is the single authoritative phase of the current user action.
type OperationState string

const (
	StateIdle       OperationState = "idle"
	StateUploading  OperationState = "uploading"
	StateProcessing OperationState = "processing"
	StateComplete   OperationState = "complete"
	StateError      OperationState = "error"
)

type StateSnapshot struct {
	State      OperationState `json:"state"`
	Generation uint64         `json:"generation"`
	Error      string         `json:"error,omitempty"`
	ErrorKind  string         `json:"error_kind,omitempty"`
}
