package domain

import "time"

// UserEventType identifies what happened to a user record.
type UserEventType string

const (
	EventUserCreated     UserEventType = "user.created"
	EventUserUpdated     UserEventType = "user.updated"
	EventUserRoleChanged UserEventType = "user.role_changed"
	EventUserDeleted     UserEventType = "user.deleted"
	EventUsersPurged     UserEventType = "users.purged"
)

// UserEvent is an audit record of a mutation on the users collection.
type UserEvent struct {
	Type       UserEventType
	UserID     string // empty for collection-wide events
	Actor      string // id of the authenticated caller, when known
	OccurredAt time.Time
	Details    map[string]string
}
