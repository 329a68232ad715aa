package workflow

import "github.com/JaimeStill/filevault/internal/client"

// resultStage holds the record produced by the latest approval. It never
// issues calls; the coordinator fetches on its behalf.
type resultStage struct {
	correlationID string
	recordID      int64
	status        Status
	record        *client.Record
	message       string
}

func newResultStage(correlationID string, recordID int64) *resultStage {
	s := &resultStage{correlationID: correlationID, recordID: recordID}
	if recordID <= 0 {
		s.status = Failed
		s.message = MsgRecordUnavailable
	}
	return s
}

func (s *resultStage) retryable() bool {
	return s.status == Failed && s.recordID > 0
}

func (s *resultStage) loading() {
	s.status = Loading
	s.message = ""
}

func (s *resultStage) loaded(r *client.Record) {
	s.status = Loaded
	s.record = r
	s.message = ""
}

func (s *resultStage) fail() {
	s.status = Failed
	s.message = MsgRecordUnavailable
}

func (s *resultStage) view() ResultView {
	return ResultView{
		CorrelationID: s.correlationID,
		RecordID:      s.recordID,
		Status:        s.status,
		Record:        cloneRecord(s.record),
		Message:       s.message,
		Retryable:     s.retryable(),
	}
}
