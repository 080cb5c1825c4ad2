package uploading

import (
	"encoding/json"
	"time"
)

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

type UploadedFile struct {
	Filename    string `json:"filename"`
	OssPath     string `json:"oss_path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type FailedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type Report struct {
	Status        string         `json:"status"`
	Message       string         `json:"message,omitempty"`
	TaskId        string         `json:"task_id"`
	UploadedCount int            `json:"uploaded_count"`
	FailedCount   int            `json:"failed_count"`
	TotalSize     int64          `json:"total_size"`
	Uploaded      []UploadedFile `json:"uploaded_files"`
	Failed        []FailedFile   `json:"failed_files"`
	Timestamp     string         `json:"timestamp"`
}

type errorReport struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newReport(taskId string) *Report {
	return &Report{
		TaskId:   taskId,
		Uploaded: make([]UploadedFile, 0),
		Failed:   make([]FailedFile, 0),
	}
}

// ErrorReport describes a request that could not be attempted at all.
func ErrorReport(message string) *Report {
	return &Report{Status: StatusError, Message: message}
}

func (r *Report) succeeded(f UploadedFile) {
	r.Uploaded = append(r.Uploaded, f)
	r.UploadedCount = len(r.Uploaded)
	r.TotalSize += f.Size
}

func (r *Report) failed(filename string, reason string) {
	r.Failed = append(r.Failed, FailedFile{Filename: filename, Reason: reason})
	r.FailedCount = len(r.Failed)
}

// finish settles the status. Any failure, including every file failing, is partial.
func (r *Report) finish() *Report {
	if r.FailedCount == 0 {
		r.Status = StatusSuccess
	} else {
		r.Status = StatusPartial
	}
	r.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	return r
}

func (r *Report) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(errorReport{Status: r.Status, Message: r.Message})
	}
	type plain Report
	return json.Marshal((*plain)(r))
}

func (r *Report) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"status":"error","message":"unable to encode report"}`
	}
	return string(b)
}
