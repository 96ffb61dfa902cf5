package services

import (
	"sort"

	"ore/internal/core"
)

// Totals is the output of the hour aggregation fold: per-day sums and
// per-day-per-project sums for one user over a bounded date range.
// Map keys are ISO day strings.
type Totals struct {
	ByDate        map[string]float64
	ByDateProject map[string]map[int64]float64
}

// Aggregate folds raw entries into day totals. Summation is plain float
// addition in input order; rounding is left to presentation. Entries are
// expected pre-filtered to a single user and range by the caller.
func Aggregate(entries []core.TimeEntry) Totals {
	t := Totals{
		ByDate:        make(map[string]float64),
		ByDateProject: make(map[string]map[int64]float64),
	}
	for _, e := range entries {
		key := e.Date.ISO()
		t.ByDate[key] += e.Hours
		perProject, ok := t.ByDateProject[key]
		if !ok {
			perProject = make(map[int64]float64)
			t.ByDateProject[key] = perProject
		}
		perProject[e.ProjectID] += e.Hours
	}
	return t
}

// RoleHours sums the hours logged on a given date against projects carrying
// the given role.
func (t Totals) RoleHours(date string, roles map[int64]core.ProjectRole, role core.ProjectRole) float64 {
	var sum float64
	perProject := t.ByDateProject[date]
	// Stable iteration keeps float accumulation reproducible across runs.
	ids := make([]int64, 0, len(perProject))
	for id := range perProject {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if roles[id] == role {
			sum += perProject[id]
		}
	}
	return sum
}

// DaySummaries renders the totals as derived per-day breakdowns, ordered by
// date then project ID.
func (t Totals) DaySummaries() []core.DaySummary {
	dates := make([]string, 0, len(t.ByDate))
	for d := range t.ByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]core.DaySummary, 0, len(dates))
	for _, d := range dates {
		date, err := core.ParseDate(d)
		if err != nil {
			continue
		}
		ds := core.DaySummary{Date: date, TotalHours: t.ByDate[d]}
		perProject := t.ByDateProject[d]
		ids := make([]int64, 0, len(perProject))
		for id := range perProject {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			ds.PerProject = append(ds.PerProject, core.ProjectHours{ProjectID: id, Hours: perProject[id]})
		}
		out = append(out, ds)
	}
	return out
}

// ProjectRoles resolves the role tag of every project once, so aggregation
// never has to compare project names at runtime.
func ProjectRoles(projects []core.Project) map[int64]core.ProjectRole {
	roles := make(map[int64]core.ProjectRole, len(projects))
	for _, p := range projects {
		roles[p.ID] = p.Role
	}
	return roles
}
