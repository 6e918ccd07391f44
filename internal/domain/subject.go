package domain

import "time"

// Subject type discriminator values.
const (
	SubjectUser  = "user"
	SubjectGroup = "group"
)

// Subject is a user or group identity. Users and groups share one table and
// one immutable-id namespace: a group may never reuse a user's id.
type Subject struct {
	ID             int64
	ImmutableID    string
	Type           string // "user" or "group"
	AdditionalInfo string
	ObjectID       *int64 // backing object row, groups only
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}

// IsGroup reports whether the subject is a group.
func (s *Subject) IsGroup() bool { return s.Type == SubjectGroup }

// Group is a group subject together with the immutable ids of its members.
type Group struct {
	Subject
	Members []string
}

// Member relates one group to one user. A user appears at most once per
// group; re-adding is a no-op.
type Member struct {
	ID            int64
	GroupID       int64
	UserID        int64
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// CreateUserRequest holds parameters for creating a user subject.
type CreateUserRequest struct {
	ID             *string
	AdditionalInfo *string
}

// CreateGroupRequest holds parameters for creating a group subject.
// Members is the ordered list of user immutable ids to enroll; empty
// entries are skipped.
type CreateGroupRequest struct {
	ID             *string
	AdditionalInfo *string
	Members        []string
}
