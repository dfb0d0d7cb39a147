package service

import (
	"sort"
	"time"

	"github.com/chronetask/backend/internal/domain"
	"github.com/chronetask/backend/internal/transport/dto/response"
)

const (
	// Горизонт "скоро дедлайн": строго после now и не позже now+48h
	dueSoonWindow = 48 * time.Hour

	// Участник неактивен, если последняя активность старше 7 дней
	inactivityWindow = 7 * 24 * time.Hour

	// Сентинел "активности не было", зафиксирован контрактом фронтенда
	neverActiveDays = 999
)

// buildReport - чистая функция агрегации: считает отчет по снапшоту
// задач и участников, без I/O. Все сортировки стабильные, при равных
// ключах сохраняется входной порядок (created_at из репозитория).
func buildReport(now time.Time, tasks []*domain.TaskSnapshot, members []*domain.ProjectMember) *response.AnalyticsResponse {
	report := &response.AnalyticsResponse{
		MemberActivities:      make([]response.MemberActivity, 0),
		ProjectsWithBlockages: make([]response.ProjectBlocked, 0),
		TasksDueSoon:          make([]response.TaskDueSoon, 0),
		InactiveMembers:       make([]response.MemberInactivity, 0),
	}

	// Одним проходом: счетчики статусов, просрочка, SLA
	for _, t := range tasks {
		report.TotalTasks++
		if t.Status == domain.StatusDone {
			report.CompletedTasks++
		} else {
			report.PendingTasks++
		}

		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != domain.StatusDone {
			report.OverdueTasks++
		}

		// SLA считается только для Done задач проектов с целевым SLA,
		// остальные не попадают ни в met, ни в missed
		if t.Status == domain.StatusDone && t.ProjectSlaHours != nil {
			deadline := t.CreatedAt.Add(time.Duration(*t.ProjectSlaHours) * time.Hour)
			completedAt := lastTouch(&t.Task)
			if !completedAt.After(deadline) {
				report.SlaMet++
			} else {
				report.SlaMissed++
			}
		}
	}

	// Участники дедуплицируются по пользователю с сохранением порядка
	seen := make(map[string]bool, len(members))
	uniq := make([]*domain.ProjectMember, 0, len(members))
	for _, m := range members {
		if seen[m.UserId] {
			continue
		}
		seen[m.UserId] = true
		uniq = append(uniq, m)
	}

	// Активность участников: счетчики по задачам снапшота
	for _, m := range uniq {
		activity := response.MemberActivity{
			UserId:     m.UserId,
			UserName:   m.Name,
			UserAvatar: m.AvatarUrl,
		}
		for _, t := range tasks {
			if t.AssignedToId == nil || *t.AssignedToId != m.UserId {
				continue
			}
			if t.Status == domain.StatusDone {
				activity.CompletedTasks++
			} else {
				activity.PendingTasks++
			}
			activity.TotalMinutes += t.TrackedMinutes
		}
		report.MemberActivities = append(report.MemberActivities, activity)
	}
	sort.SliceStable(report.MemberActivities, func(i, j int) bool {
		return report.MemberActivities[i].CompletedTasks > report.MemberActivities[j].CompletedTasks
	})

	// Блокировки по проектам, проекты без Blocked задач не попадают
	blockedCounts := make(map[string]int)
	projectNames := make(map[string]string)
	var projectOrder []string
	for _, t := range tasks {
		if _, ok := projectNames[t.ProjectId]; !ok {
			projectNames[t.ProjectId] = t.ProjectName
			projectOrder = append(projectOrder, t.ProjectId)
		}
		if t.Status == domain.StatusBlocked {
			blockedCounts[t.ProjectId]++
		}
	}
	for _, projectId := range projectOrder {
		count := blockedCounts[projectId]
		if count == 0 {
			continue
		}
		report.ProjectsWithBlockages = append(report.ProjectsWithBlockages, response.ProjectBlocked{
			ProjectId:         projectId,
			ProjectName:       projectNames[projectId],
			BlockedTasksCount: count,
		})
	}
	sort.SliceStable(report.ProjectsWithBlockages, func(i, j int) bool {
		return report.ProjectsWithBlockages[i].BlockedTasksCount > report.ProjectsWithBlockages[j].BlockedTasksCount
	})

	// Скоро дедлайн: (now, now+48h], часы усекаются, не округляются
	dueSoonLimit := now.Add(dueSoonWindow)
	for _, t := range tasks {
		if t.DueDate == nil || t.Status == domain.StatusDone {
			continue
		}
		if !t.DueDate.After(now) || t.DueDate.After(dueSoonLimit) {
			continue
		}
		report.TasksDueSoon = append(report.TasksDueSoon, response.TaskDueSoon{
			TaskId:        t.Id,
			TaskTitle:     t.Title,
			ProjectId:     t.ProjectId,
			ProjectName:   t.ProjectName,
			DueDate:       *t.DueDate,
			HoursUntilDue: int(t.DueDate.Sub(now).Hours()),
		})
	}
	sort.SliceStable(report.TasksDueSoon, func(i, j int) bool {
		return report.TasksDueSoon[i].DueDate.Before(report.TasksDueSoon[j].DueDate)
	})

	// Неактивные участники: последнее касание задачи старше 7 дней
	// или задач нет вовсе (сентинел 999, сортируется выше всех)
	type inactivity struct {
		entry response.MemberInactivity
		never bool
	}
	var inactive []inactivity
	for _, m := range uniq {
		var last time.Time
		found := false
		for _, t := range tasks {
			if t.AssignedToId == nil || *t.AssignedToId != m.UserId {
				continue
			}
			touch := lastTouch(&t.Task)
			if !found || touch.After(last) {
				last = touch
				found = true
			}
		}

		if found && now.Sub(last) <= inactivityWindow {
			continue
		}

		days := neverActiveDays
		if found {
			days = int(now.Sub(last).Hours() / 24)
		}
		inactive = append(inactive, inactivity{
			entry: response.MemberInactivity{
				UserId:                m.UserId,
				UserName:              m.Name,
				UserAvatar:            m.AvatarUrl,
				DaysSinceLastActivity: days,
			},
			never: !found,
		})
	}
	sort.SliceStable(inactive, func(i, j int) bool {
		if inactive[i].never != inactive[j].never {
			return inactive[i].never
		}
		return inactive[i].entry.DaysSinceLastActivity > inactive[j].entry.DaysSinceLastActivity
	})
	for _, in := range inactive {
		report.InactiveMembers = append(report.InactiveMembers, in.entry)
	}

	return report
}

// lastTouch - последнее касание задачи: updated_at, если было
// хоть одно обновление, иначе created_at
func lastTouch(t *domain.Task) time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}
