// Package board holds the pure board and sprint logic: order assignment,
// the drag-and-drop move reducer, sprint lifecycle validation and naming.
// Nothing in this package performs I/O; callers sequence persistence and
// activity logging around it.
package board

import (
	"fmt"
	"sort"

	"zcrum/internal/models"
)

// Position addresses one slot on the board: a column and an index within it.
type Position struct {
	Status models.IssueStatus `json:"status"`
	Index  int                `json:"index"`
}

// Move is the result of a single drag-and-drop gesture. A nil Destination
// means the gesture was cancelled.
type Move struct {
	Source      Position  `json:"source"`
	Destination *Position `json:"destination"`
}

// Result is the outcome of applying a move. Issues holds the full merged
// collection sorted by (status rank, order); Touched holds only the issues
// whose order or status changed and therefore need persisting.
type Result struct {
	Issues  []models.Issue
	Touched []models.Issue
	Applied bool
}

// NextOrder returns the append position for a new issue in a (project, status)
// partition: one past the current maximum, or zero for an empty partition.
// Gaps left by deletions are never compacted, so this is computed from the
// maximum rather than the length.
func NextOrder(partition []models.Issue) int {
	next := 0
	for _, issue := range partition {
		if issue.Order >= next {
			next = issue.Order + 1
		}
	}
	return next
}

// ApplyMove translates a gesture result into a fully renumbered collection.
//
// Same-column moves splice the issue to its new index and renumber that column
// zero-based. Cross-column moves additionally rewrite the issue's status and
// renumber both columns. Cancelled gestures and moves onto the original slot
// are no-ops. The input slice is not mutated.
func ApplyMove(issues []models.Issue, mv Move) (Result, error) {
	noop := Result{Issues: issues}

	if mv.Destination == nil {
		return noop, nil
	}
	if !mv.Source.Status.Valid() {
		return Result{}, fmt.Errorf("%w: unknown source status %q", models.ErrValidation, mv.Source.Status)
	}
	if !mv.Destination.Status.Valid() {
		return Result{}, fmt.Errorf("%w: unknown destination status %q", models.ErrValidation, mv.Destination.Status)
	}
	if mv.Source.Status == mv.Destination.Status && mv.Source.Index == mv.Destination.Index {
		return noop, nil
	}

	columns := partition(issues)
	before := placements(issues)

	source := columns[mv.Source.Status]
	if mv.Source.Index < 0 || mv.Source.Index >= len(source) {
		return Result{}, fmt.Errorf("%w: source index %d out of range for %s", models.ErrValidation, mv.Source.Index, mv.Source.Status)
	}

	if mv.Source.Status == mv.Destination.Status {
		columns[mv.Source.Status] = reorder(source, mv.Source.Index, clamp(mv.Destination.Index, len(source)-1))
	} else {
		moved := source[mv.Source.Index]
		source = append(source[:mv.Source.Index:mv.Source.Index], source[mv.Source.Index+1:]...)
		moved.Status = mv.Destination.Status

		dest := columns[mv.Destination.Status]
		at := clamp(mv.Destination.Index, len(dest))
		dest = append(dest[:at:at], append([]models.Issue{moved}, dest[at:]...)...)

		columns[mv.Source.Status] = source
		columns[mv.Destination.Status] = dest
	}

	merged := make([]models.Issue, 0, len(issues))
	for _, status := range models.IssueStatuses {
		column := columns[status]
		for i := range column {
			column[i].Order = i
		}
		merged = append(merged, column...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Status != merged[j].Status {
			return merged[i].Status.Rank() < merged[j].Status.Rank()
		}
		return merged[i].Order < merged[j].Order
	})

	var touched []models.Issue
	for _, issue := range merged {
		prev := before[issue.ID]
		if issue.Status != prev.Status || issue.Order != prev.Order {
			touched = append(touched, issue)
		}
	}

	return Result{Issues: merged, Touched: touched, Applied: true}, nil
}

// partition groups issues by status, each group sorted by current order. The
// returned groups hold copies, so reindexing them leaves the input intact.
func partition(issues []models.Issue) map[models.IssueStatus][]models.Issue {
	columns := make(map[models.IssueStatus][]models.Issue, len(models.IssueStatuses))
	for _, issue := range issues {
		columns[issue.Status] = append(columns[issue.Status], issue)
	}
	for status, column := range columns {
		sort.SliceStable(column, func(i, j int) bool { return column[i].Order < column[j].Order })
		columns[status] = column
	}
	return columns
}

type placement struct {
	Status models.IssueStatus
	Order  int
}

func placements(issues []models.Issue) map[string]placement {
	prev := make(map[string]placement, len(issues))
	for _, issue := range issues {
		prev[issue.ID] = placement{Status: issue.Status, Order: issue.Order}
	}
	return prev
}

// reorder moves the element at from to index to within a copy of list.
func reorder(list []models.Issue, from, to int) []models.Issue {
	result := make([]models.Issue, len(list))
	copy(result, list)
	moved := result[from]
	result = append(result[:from], result[from+1:]...)
	result = append(result[:to:to], append([]models.Issue{moved}, result[to:]...)...)
	return result
}

func clamp(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}
