package domain

// Status is the moderation status of a release. Soft deletion is tracked
// separately so a restored release returns to the status it had before.
type Status string

const (
	StatusDraft        Status = "Draft"
	StatusOnModeration Status = "On Moderation"
	StatusPublished    Status = "Published"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusOnModeration, StatusPublished:
		return true
	}
	return false
}
