package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthEventType names a session state transition written to the audit trail.
type AuthEventType string

const (
	EventRegister       AuthEventType = "register"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLogout         AuthEventType = "logout"
	EventResetRequested AuthEventType = "reset_requested"
	EventResetConfirmed AuthEventType = "reset_confirmed"
	EventRoleChanged    AuthEventType = "role_changed"
)

// AuthEvent is stored in MongoDB, one document per transition.
type AuthEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      AuthEventType      `bson:"type" json:"type"`
	UserID    *int64             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	ClientIP  string             `bson:"client_ip,omitempty" json:"client_ip,omitempty"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Detail    string             `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
