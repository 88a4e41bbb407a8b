package ws

import "todo_webapp/internal/domain"

// Visible is the publish predicate: a task may be observed by viewerID iff
// it is not private or the viewer owns it. viewerID 0 is an anonymous
// viewer and only sees non-private tasks. This single predicate drives both
// the connect-time snapshot and the per-event fan-out.
func Visible(t *domain.Task, viewerID int64) bool {
	if t == nil {
		return false
	}
	return !t.Private || t.OwnerID == viewerID
}

// DiffEvent classifies a task mutation for one viewer by comparing the
// visibility of the old and new state. Returns the message type and the
// payload task, or ok=false when the viewer should not be notified at all.
func DiffEvent(old, updated *domain.Task, viewerID int64) (msgType string, task *domain.Task, ok bool) {
	visOld := Visible(old, viewerID)
	visNew := Visible(updated, viewerID)

	switch {
	case !visOld && visNew:
		return MsgAdded, updated, true
	case visOld && !visNew:
		return MsgRemoved, old, true
	case visOld && visNew:
		return MsgChanged, updated, true
	default:
		return "", nil, false
	}
}
