package domain

// Action is an operation a principal attempts on an event or its children.
type Action int

const (
	// ActionManage covers every owner-only operation: updating or deleting the event,
	// creating or listing invites, uploading or deleting media.
	ActionManage Action = iota + 1
	// ActionView covers reading the event and its gallery.
	ActionView
)

// Principal is the caller as seen by the policy: a verified user id, an invite
// resolved from a presented code, both, or neither.
type Principal struct {
	UserID string
	Invite *Invite
}

// CanAccess reports whether the principal may perform the action on the event.
//
// Owners may do anything. Non-owners may only view, and only with an invite for
// this event that has been accepted or scanned.
func CanAccess(p Principal, event *Event, action Action) bool {
	if event == nil {
		return false
	}
	if p.UserID != "" && p.UserID == event.UserID {
		return true
	}
	if action != ActionView || p.Invite == nil {
		return false
	}
	return p.Invite.EventID == event.ID && p.Invite.Status.GrantsAccess()
}

// Authorize is CanAccess as an error: ErrNotFound when the event is absent,
// ErrForbidden when it exists but the predicate fails.
func Authorize(p Principal, event *Event, action Action) error {
	if event == nil {
		return ErrNotFound
	}
	if !CanAccess(p, event, action) {
		return ErrForbidden
	}
	return nil
}
