// Package agenda orders a project's tasks into the sequence the studio
// should work them in.
package agenda

import (
	"sort"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
)

// CanonicalSort sorts tasks by the deterministic canonical rules:
// 1. Open tasks before completed ones
// 2. Priority: urgent > high > medium > low > none
// 3. Due date: earliest first (nil last)
// 4. Pipeline stage the category counts toward, earliest first
// 5. Title, then ID, lexical ascending
//
// Completed tasks are ordered by completion time, most recent first, with
// any missing a completion time last.
func CanonicalSort(tasks []*domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if a.IsCompleted() != b.IsCompleted() {
			return !a.IsCompleted()
		}
		if a.IsCompleted() {
			ca, cb := a.CompletedAt, b.CompletedAt
			if (ca == nil) != (cb == nil) {
				return ca != nil
			}
			if ca != nil && !ca.Equal(*cb) {
				return ca.After(*cb)
			}
			return a.ID < b.ID
		}

		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}

		dueA, dueB := a.DueDate, b.DueDate
		if (dueA == nil) != (dueB == nil) {
			return dueA != nil
		}
		if dueA != nil && !dueA.Equal(*dueB) {
			return dueA.Before(*dueB)
		}

		sa := progress.StageForCategory(a.Category).Index()
		sb := progress.StageForCategory(b.Category).Index()
		if sa != sb {
			return sa < sb
		}

		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// Open returns the tasks that are not completed, in their existing order.
func Open(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			out = append(out, t)
		}
	}
	return out
}
