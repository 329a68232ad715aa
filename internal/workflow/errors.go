package workflow

import "errors"

// Refusals returned by coordinator actions. A refused action leaves state unchanged.
var (
	ErrBusy            = errors.New("a request is already in flight")
	ErrNotAccepting    = errors.New("action not available in the current phase")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoPending       = errors.New("no document pending review")
	ErrStopped         = errors.New("coordinator stopped")
	ErrRunning         = errors.New("coordinator already running")

	errMissingCorrelation = errors.New("response carried no correlation id")
)

// User-facing messages. Failure causes are logged, never shown.
const (
	MsgUploadFailed      = "Upload failed. Please try again."
	MsgApprovalFailed    = "Approval failed."
	MsgRecordUnavailable = "Could not load the extracted record."
	MsgNoRecords         = "No records found."
	MsgRecordsFailed     = "Could not load records."
)
