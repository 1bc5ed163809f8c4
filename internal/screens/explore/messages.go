package explore

import (
	stem "github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/upload"
)

// Every generation message carries the run it belongs to so that output
// from a stopped run is dropped once a new one starts.

// phaseMsg reports a phase transition of the running generation.
type phaseMsg struct {
	Run   int
	Phase stem.Phase
}

// resultReadyMsg is sent once the chosen text is known, before streaming.
type resultReadyMsg struct {
	Run        int
	Tier       stem.Tier
	TotalWords int
}

// wordMsg carries one streamed word, trailing space included.
type wordMsg struct {
	Run  int
	Word string
}

// generationFailedMsg is sent when either tier returns an error.
type generationFailedMsg struct {
	Run int
	Err error
}

// streamClosedMsg is sent when the generation goroutine has exited.
type streamClosedMsg struct {
	Run int
}

// imageLoadedMsg is sent after an image path has been read and decoded.
type imageLoadedMsg struct {
	Info upload.Info
	Err  error
}
