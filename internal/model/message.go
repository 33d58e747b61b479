package model

// ValidationMessage is a single finding from the pre-flight data check.
type ValidationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

const (
	LevelError   = "ERROR"
	LevelWarning = "WARNING"
)

type ValidationReport struct {
	FilesChecked int                 `json:"files_checked"`
	Errors       int                 `json:"errors"`
	Warnings     int                 `json:"warnings"`
	Messages     []ValidationMessage `json:"messages"`
}

// HasErrors reports whether any ERROR-level message was recorded.
func (r *ValidationReport) HasErrors() bool {
	return r.Errors > 0
}
