package ui

import (
	"github.com/desertthunder/showtrack/internal/models"
	"github.com/desertthunder/showtrack/internal/tasks"
)

type showsFetchedMsg struct {
	shows []*models.Show
	err   error
}

type showFetchedMsg struct {
	show *models.Show
	err  error
}

type progressUpdateMsg tasks.ProgressUpdate

type importCompleteMsg struct {
	show *models.Show
	err  error
}
