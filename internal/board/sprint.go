package board

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"zcrum/internal/models"
)

var sprintNumberPattern = regexp.MustCompile(`-(\d+)$`)

// NextSprintName derives the next sprint name for a project by scanning
// sibling names for a trailing -<number> suffix and taking the maximum.
// Numbers are never reused: deleting an intermediate sprint does not free its
// number, because the maximum is re-derived from the surviving rows.
func NextSprintName(projectKey string, siblings []models.Sprint) string {
	max := 0
	for _, sprint := range siblings {
		match := sprintNumberPattern.FindStringSubmatch(sprint.Name)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d", projectKey, max+1)
}

// ValidateTransition checks a sprint lifecycle transition. The machine is
// strictly forward: PLANNED -> ACTIVE -> COMPLETED, no skips, no reversals.
// Starting a sprint is only allowed while now lies within
// [StartDate, EndDate]; both bounds are inclusive.
func ValidateTransition(sprint models.Sprint, target models.SprintStatus, now time.Time) error {
	switch target {
	case models.SprintActive:
		if sprint.Status != models.SprintPlanned {
			return models.ErrInvalidTransition
		}
		if now.Before(sprint.StartDate) || now.After(sprint.EndDate) {
			return models.ErrSprintDateRange
		}
		return nil
	case models.SprintCompleted:
		if sprint.Status != models.SprintActive {
			return models.ErrSprintNotActive
		}
		return nil
	default:
		return models.ErrInvalidTransition
	}
}

// ValidateDeletion permits deletion only while a sprint is still PLANNED.
func ValidateDeletion(sprint models.Sprint) error {
	if sprint.Status != models.SprintPlanned {
		return models.ErrSprintNotPlanned
	}
	return nil
}

// ValidateBoardUpdate gates board mutations by sprint state: only an ACTIVE
// sprint accepts reordering.
func ValidateBoardUpdate(sprint models.Sprint) error {
	switch sprint.Status {
	case models.SprintPlanned:
		return models.ErrBoardNotStarted
	case models.SprintCompleted:
		return models.ErrBoardCompleted
	default:
		return nil
	}
}

// SelectDefaultSprint picks the sprint a board should show initially: the
// first ACTIVE sprint wins, otherwise the first sprint in list order, or nil
// when the project has none.
func SelectDefaultSprint(sprints []models.Sprint) *models.Sprint {
	for i := range sprints {
		if sprints[i].Status == models.SprintActive {
			return &sprints[i]
		}
	}
	if len(sprints) > 0 {
		return &sprints[0]
	}
	return nil
}
