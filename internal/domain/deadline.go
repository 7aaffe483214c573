package domain

import "time"

// Deadline belongs to the deadline store and points at a task held by the
// task store. UserID must match the task's owner at the time of every write.
type Deadline struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"taskId"`
	Deadline  string    `db:"deadline" json:"deadline"`
	UserID    int64     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type DeadlineEventType string

const (
	DeadlineCreated DeadlineEventType = "deadline.created"
	DeadlineUpdated DeadlineEventType = "deadline.updated"
	DeadlineDeleted DeadlineEventType = "deadline.deleted"
)

type DeadlineEvent struct {
	Type     DeadlineEventType `json:"type"`
	Deadline Deadline          `json:"deadline"`
	At       time.Time         `json:"at"`
}
