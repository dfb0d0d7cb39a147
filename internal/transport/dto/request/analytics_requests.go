package request

import "time"

// AnalyticsRequest собирается хендлером из query-параметров
type AnalyticsRequest struct {
	OrganizationId string
	ProjectId      *string
	MemberId       *string
	StartDate      *time.Time
	EndDate        *time.Time
}
