package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueStatus identifies the board column an issue belongs to.
type IssueStatus string

const (
	StatusTodo       IssueStatus = "TODO"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusInReview   IssueStatus = "IN_REVIEW"
	StatusDone       IssueStatus = "DONE"
)

// IssueStatuses lists the board columns in display order.
var IssueStatuses = []IssueStatus{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

// Valid reports whether the status is one of the known board columns.
func (s IssueStatus) Valid() bool {
	for _, known := range IssueStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Rank returns the column's position in the workflow, used for deterministic
// board ordering. Unknown statuses sort last.
func (s IssueStatus) Rank() int {
	for i, known := range IssueStatuses {
		if s == known {
			return i
		}
	}
	return len(IssueStatuses)
}

// IssuePriority expresses how urgent an issue is.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "LOW"
	PriorityMedium IssuePriority = "MEDIUM"
	PriorityHigh   IssuePriority = "HIGH"
	PriorityUrgent IssuePriority = "URGENT"
)

// Valid reports whether the priority is one of the known levels.
func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SprintStatus is the lifecycle state of a sprint. Transitions are strictly
// forward: PLANNED -> ACTIVE -> COMPLETED.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
)

// Valid reports whether the sprint status is known.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintPlanned, SprintActive, SprintCompleted:
		return true
	}
	return false
}

// ActivityType classifies an activity log entry.
type ActivityType string

const (
	ActivityCreated       ActivityType = "CREATED"
	ActivityUpdated       ActivityType = "UPDATED"
	ActivityDeleted       ActivityType = "DELETED"
	ActivityMoved         ActivityType = "MOVED"
	ActivityStatusChanged ActivityType = "STATUS_CHANGED"
	ActivityCommented     ActivityType = "COMMENTED"
)

// Field length limits shared by request validation.
const (
	MaxNameLen        = 100
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MinKeyLen         = 2
	MaxKeyLen         = 10
)

// User mirrors an identity-provider account inside the local database.
type User struct {
	ID         string `json:"id" gorm:"primaryKey"`
	ExternalID string `json:"external_id" gorm:"uniqueIndex;not null"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is an organization-owned container for sprints and issues. The key
// is the short uppercase token used to derive sprint names.
type Project struct {
	ID             string `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"not null"`
	Description    string `json:"description"`
	Key            string `json:"key" gorm:"uniqueIndex:idx_projects_org_key;not null"`
	OrganizationID string `json:"organization_id" gorm:"uniqueIndex:idx_projects_org_key;index;not null"`

	Sprints []Sprint `json:"sprints,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sprint is a time-boxed container of issues named {projectKey}-{N}.
type Sprint struct {
	ID        string       `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"uniqueIndex:idx_sprints_project_name;not null"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    SprintStatus `json:"status" gorm:"not null;default:PLANNED"`
	ProjectID string       `json:"project_id" gorm:"uniqueIndex:idx_sprints_project_name;index;not null"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Issue is a single card on the board. Order is the dense zero-based position
// inside the (project, status) partition.
type Issue struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description"`
	Status      IssueStatus   `json:"status" gorm:"index:idx_issues_project_status;not null"`
	Priority    IssuePriority `json:"priority" gorm:"not null"`
	Order       int           `json:"order" gorm:"column:order;not null"`
	ProjectID   string        `json:"project_id" gorm:"index:idx_issues_project_status;not null"`
	SprintID    *string       `json:"sprint_id" gorm:"index"`
	ReporterID  string        `json:"reporter_id" gorm:"not null"`
	AssigneeID  *string       `json:"assignee_id"`

	Project  *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Sprint   *Sprint  `json:"sprint,omitempty" gorm:"foreignKey:SprintID"`
	Reporter *User    `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Assignee *User    `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityLog is one append-only audit entry. Entity references are weak:
// deleting the referenced row keeps the log, so no association constraints
// are declared on them.
type ActivityLog struct {
	ID        string       `json:"id" gorm:"primaryKey"`
	Message   string       `json:"message" gorm:"not null"`
	Type      ActivityType `json:"type" gorm:"not null"`
	UserID    string       `json:"user_id" gorm:"index;not null"`
	IssueID   *string      `json:"issue_id"`
	ProjectID *string      `json:"project_id" gorm:"index"`
	SprintID  *string      `json:"sprint_id"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a fresh UUID when the row has no identifier yet.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (s *Sprint) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (i *Issue) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (l *ActivityLog) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
