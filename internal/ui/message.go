package ui

import (
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/tasks"
)

// pageFetchedMsg carries one page of the collection identified by job.
type pageFetchedMsg struct {
	job   tasks.CollectionJob
	items []models.Item
	reset bool
	more  bool
	err   error
}

// likeToggledMsg reports the outcome of a like toggle on the item at index.
type likeToggledMsg struct {
	index   int
	track   *models.Playable
	applied bool
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type exportCompleteMsg struct {
	result *tasks.ExportResult
	err    error
}
