package result

import (
	"time"

	"github.com/chronetask/backend/internal/domain"
)

type OrgResult struct {
	Id        string
	Name      string
	CreatedAt time.Time
	Members   []*domain.OrgMember
}
