package workflow

import "github.com/JaimeStill/filevault/internal/client"

// reviewStage gates one descriptor. Exactly one of approve or reject
// completes it.
type reviewStage struct {
	descriptor client.Descriptor
	status     Status
	message    string
}

func newReviewStage(d client.Descriptor) *reviewStage {
	return &reviewStage{descriptor: d}
}

func (s *reviewStage) beginApprove() error {
	if s.status == Loading {
		return ErrBusy
	}
	s.status = Loading
	s.message = ""
	return nil
}

func (s *reviewStage) reject() error {
	if s.status == Loading {
		return ErrBusy
	}
	return nil
}

func (s *reviewStage) fail() {
	s.status = Failed
	s.message = MsgApprovalFailed
}

func (s *reviewStage) view() ReviewView {
	return ReviewView{Descriptor: s.descriptor, Status: s.status, Message: s.message}
}
