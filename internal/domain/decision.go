package domain

// Decision is the outcome of an access evaluation.
type Decision string

// Decision values. A missing object or undefined permission evaluates to
// Deny; the engine does not distinguish "unknown" from "denied".
const (
	DecisionGrant Decision = "grant"
	DecisionDeny  Decision = "deny"
)

// Granted reports whether the decision allows access.
func (d Decision) Granted() bool { return d == DecisionGrant }

// CheckAccessRequest holds the parameters of an access evaluation.
type CheckAccessRequest struct {
	SubjectID  string
	Permission string
	ObjectID   string
}

// Validate checks that the request is well-formed.
func (r *CheckAccessRequest) Validate() error {
	if r.SubjectID == "" {
		return ErrValidation("subject id is required")
	}
	if r.Permission == "" {
		return ErrValidation("permission is required")
	}
	if r.ObjectID == "" {
		return ErrValidation("object id is required")
	}
	return nil
}
