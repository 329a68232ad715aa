package workflow

import "github.com/JaimeStill/filevault/internal/client"

// historyStage is the collection view. Every refresh bumps counter and only
// the completion carrying the current counter is applied.
type historyStage struct {
	open    bool
	counter uint64
	status  Status
	records []client.Record
	message string
}

// bump opens the view and starts a new request generation.
func (h *historyStage) bump() uint64 {
	h.open = true
	h.counter++
	h.status = Loading
	h.message = ""
	return h.counter
}

func (h *historyStage) close() {
	h.open = false
	h.counter++
	h.status = Idle
	h.records = nil
	h.message = ""
}

// complete applies a finished fetch. It reports false for superseded ones.
func (h *historyStage) complete(counter uint64, records []client.Record, err error) bool {
	if !h.open || counter != h.counter {
		return false
	}

	if err != nil {
		h.status = Failed
		h.message = MsgRecordsFailed
		return true
	}

	h.status = Loaded
	h.records = records
	h.message = ""
	if len(records) == 0 {
		h.message = MsgNoRecords
	}
	return true
}

func (h *historyStage) view() HistoryView {
	return HistoryView{
		Open:    h.open,
		Counter: h.counter,
		Status:  h.status,
		Records: cloneRecords(h.records),
		Message: h.message,
	}
}
