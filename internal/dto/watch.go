package dto

// SnapshotResponse is one realtime delivery on the watch channel: the
// caller's trips plus their pending invitations, recomputed in full
// after every change.
type SnapshotResponse struct {
	Type        string                  `json:"type"`
	Trips       []TripResponse          `json:"trips"`
	Invitations []PendingInvitationItem `json:"invitations"`
}
