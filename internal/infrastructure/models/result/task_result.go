package result

import "github.com/chronetask/backend/internal/domain"

type LogTimeResult struct {
	Task  *domain.Task
	Entry *domain.TimeEntry
}
