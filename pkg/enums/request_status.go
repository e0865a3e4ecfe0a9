package enums

import "fmt"

// RequestStatus tracks the lifecycle of a purchase request through its
// approval tiers.
type RequestStatus string

const (
	RequestStatusPendingDM    RequestStatus = "pending_dm"
	RequestStatusPendingCM    RequestStatus = "pending_cm"
	RequestStatusPendingAdmin RequestStatus = "pending_admin"
	RequestStatusApproved     RequestStatus = "approved"
	RequestStatusRejected     RequestStatus = "rejected"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPendingDM,
	RequestStatusPendingCM,
	RequestStatusPendingAdmin,
	RequestStatusApproved,
	RequestStatusRejected,
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (r RequestStatus) IsTerminal() bool {
	return r == RequestStatusApproved || r == RequestStatusRejected
}

// IsPending reports whether the request still awaits an approval decision.
func (r RequestStatus) IsPending() bool {
	switch r {
	case RequestStatusPendingDM, RequestStatusPendingCM, RequestStatusPendingAdmin:
		return true
	default:
		return false
	}
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
