package board

import (
	"slices"
	"sort"

	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
)

const (
	fieldPriority = "priority"
	fieldStatus   = "status"
	fieldSchedule = "schedule"
)

// GroupedSummary holds projects grouped by a field.
type GroupedSummary struct {
	Field  string         `json:"field"`
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Stats    Stats    `json:"stats"`
	Projects []string `json:"projects"`
}

// GroupBy groups projects by the specified field and aggregates each group.
func GroupBy(projects []project.Project, field string, ref date.Date) GroupedSummary {
	groups := make(map[string][]project.Project)
	for _, p := range projects {
		key := groupKey(p, field, ref)
		groups[key] = append(groups[key], p)
	}

	result := GroupedSummary{
		Field:  field,
		Groups: make([]GroupSummary, 0, len(groups)),
	}
	for _, key := range sortGroupKeys(groups, field) {
		members := groups[key]
		names := make([]string, 0, len(members))
		for _, p := range members {
			names = append(names, p.Name)
		}
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Label:    groupLabel(key, field),
			Stats:    DashboardAggregate(members, ref),
			Projects: names,
		})
	}
	return result
}

func groupKey(p project.Project, field string, ref date.Date) string {
	switch field {
	case fieldStatus:
		return string(p.Status)
	case fieldPriority:
		return string(p.Priority)
	case fieldSchedule:
		return string(ProjectSchedule(p, ref))
	case "category":
		if p.Category == "" {
			return "(uncategorized)"
		}
		return p.Category
	case "owner":
		return p.Owner
	default:
		return "(all)"
	}
}

func groupLabel(key, field string) string {
	switch field {
	case fieldStatus:
		return StatusLabel(project.Status(key))
	case fieldPriority:
		return PriorityLabel(project.Priority(key))
	case fieldSchedule:
		return ScheduleLabel(Schedule(key))
	default:
		return key
	}
}

func sortGroupKeys(groups map[string][]project.Project, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldStatus:
		sort.SliceStable(keys, func(i, j int) bool {
			return slices.Index(project.Statuses, project.Status(keys[i])) <
				slices.Index(project.Statuses, project.Status(keys[j]))
		})
	case fieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return slices.Index(project.Priorities, project.Priority(keys[i])) <
				slices.Index(project.Priorities, project.Priority(keys[j]))
		})
	case fieldSchedule:
		sort.SliceStable(keys, func(i, j int) bool {
			return slices.Index(Schedules, Schedule(keys[i])) < slices.Index(Schedules, Schedule(keys[j]))
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldStatus, fieldPriority, fieldSchedule, "category", "owner"}
}
