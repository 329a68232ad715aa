package workflow

import (
	"slices"

	"github.com/JaimeStill/filevault/internal/client"
)

// Phase is the coordinator's position in the intake cycle.
type Phase int

const (
	AwaitingUpload Phase = iota
	PendingReview
	ResultReady
)

func (p Phase) String() string {
	switch p {
	case AwaitingUpload:
		return "awaiting upload"
	case PendingReview:
		return "pending review"
	case ResultReady:
		return "result ready"
	default:
		return "unknown"
	}
}

// Status is the state of a single stage.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// UploadView is the upload stage as observed. Status is Loading while an
// upload is in flight.
type UploadView struct {
	Status  Status
	File    string
	Message string
}

// ReviewView is the review stage as observed. Status is Loading while an
// approval is in flight.
type ReviewView struct {
	Descriptor client.Descriptor
	Status     Status
	Message    string
}

// ResultView renders zero or one extracted record.
type ResultView struct {
	CorrelationID string
	RecordID      int64
	Status        Status
	Record        *client.Record
	Message       string
	Retryable     bool
}

// HistoryView renders the record collection. Counter identifies the most
// recent refresh request.
type HistoryView struct {
	Open    bool
	Counter uint64
	Status  Status
	Records []client.Record
	Message string
}

// Snapshot is an immutable copy of coordinator state. Review is set only in
// PendingReview and Result only in ResultReady.
type Snapshot struct {
	Version uint64
	Phase   Phase
	Upload  UploadView
	Review  *ReviewView
	Result  *ResultView
	History HistoryView
}

func (c *Coordinator) snapshot() Snapshot {
	s := Snapshot{
		Version: c.version,
		Phase:   c.phase,
		Upload:  c.upload.view(),
		History: c.history.view(),
	}
	if c.phase == PendingReview && c.review != nil {
		v := c.review.view()
		s.Review = &v
	}
	if c.phase == ResultReady && c.result != nil {
		v := c.result.view()
		s.Result = &v
	}
	return s
}

func cloneRecord(r *client.Record) *client.Record {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func cloneRecords(rs []client.Record) []client.Record {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs)
}
