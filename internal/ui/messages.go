package ui

import "github.com/leonardomso/autolink/internal/processor"

// FilesFoundMsg is sent when the scan has finished.
type FilesFoundMsg struct {
	Err   error
	Files []string
}

// FileProcessedMsg is sent when a single file has been searched.
type FileProcessedMsg struct {
	Result processor.Result
}

// AllFilesProcessedMsg is sent when every file has been searched, or when
// the processor could not start.
type AllFilesProcessedMsg struct {
	Err error
}
