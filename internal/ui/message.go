package ui

import (
	"github.com/vibecatch/vibecatch/internal/repositories"
	"github.com/vibecatch/vibecatch/internal/tasks"
)

// progressUpdateMsg carries one session progress event into the Elm loop.
type progressUpdateMsg tasks.ProgressUpdate

// sessionDoneMsg carries the acknowledged terminal result of a session.
type sessionDoneMsg tasks.Result

// trackFiledMsg reports the outcome of filing the caught track into a playlist.
type trackFiledMsg struct {
	category string
	outcome  repositories.AddResult
	err      error
}
