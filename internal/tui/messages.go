package tui

import "github.com/nguyentantai21042004/audio-brief/internal/audio"

// RecordingStartedMsg is sent once the input device is open.
type RecordingStartedMsg struct {
	Err error
}

// RecordingStoppedMsg carries the saved recording after Stop.
type RecordingStoppedMsg struct {
	Recording audio.Recording
	Err       error
}

// SummaryMsg carries the result of a summarize request.
type SummaryMsg struct {
	Text string
	Err  error
}
