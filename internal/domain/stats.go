package domain

// Stats is the admin-facing aggregate snapshot.
type Stats struct {
	Users       int64
	Notes       int64
	Shares      int64
	Attachments int64
}
