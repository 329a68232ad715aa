package workflow

import (
	"mime"
	"slices"
	"strings"

	"github.com/JaimeStill/filevault/internal/client"
)

type uploadStage struct {
	accepted []string
	status   Status
	file     string
	message  string
}

func newUploadStage(accepted []string) *uploadStage {
	return &uploadStage{accepted: accepted}
}

// begin moves the stage to in-flight for f.
func (s *uploadStage) begin(f client.File) error {
	if s.status == Loading {
		return ErrBusy
	}
	if !s.accepts(f.ContentType) {
		return ErrUnsupportedType
	}

	s.status = Loading
	s.file = f.Name
	s.message = ""
	return nil
}

func (s *uploadStage) succeed() {
	s.status = Idle
	s.message = ""
}

func (s *uploadStage) fail() {
	s.status = Failed
	s.message = MsgUploadFailed
}

func (s *uploadStage) reset() {
	s.status = Idle
	s.file = ""
	s.message = ""
}

func (s *uploadStage) accepts(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(s.accepted, func(a string) bool {
		return strings.EqualFold(a, mt)
	})
}

func (s *uploadStage) view() UploadView {
	return UploadView{Status: s.status, File: s.file, Message: s.message}
}
