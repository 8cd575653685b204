package session

import "github.com/banzai-team/spoon-rebalancing/internal/attachment"

// Event is a tagged variant fed into the controller's single reducer.
// Routing both independent event sources through one entry point keeps
// the one-reply-in-flight invariant enforced in a single place.
type Event interface {
	sessionEvent()
}

// InputSubmitted carries the user's submitted input text.
type InputSubmitted struct {
	Text string
}

func (InputSubmitted) sessionEvent() {}

// FilesSelected carries a batch of freshly selected attachment files.
type FilesSelected struct {
	Files []attachment.File
}

func (FilesSelected) sessionEvent() {}
