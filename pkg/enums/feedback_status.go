package enums

import "fmt"

// FeedbackStatus is the moderation state of client feedback.
type FeedbackStatus string

const (
	FeedbackStatusPending   FeedbackStatus = "Pending"
	FeedbackStatusPublished FeedbackStatus = "Published"
	FeedbackStatusHidden    FeedbackStatus = "Hidden"
)

var validFeedbackStatuses = []FeedbackStatus{
	FeedbackStatusPending,
	FeedbackStatusPublished,
	FeedbackStatusHidden,
}

// String implements fmt.Stringer.
func (f FeedbackStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeedbackStatus.
func (f FeedbackStatus) IsValid() bool {
	for _, candidate := range validFeedbackStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeedbackStatus converts raw input into a FeedbackStatus.
func ParseFeedbackStatus(value string) (FeedbackStatus, error) {
	for _, candidate := range validFeedbackStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feedback status %q", value)
}
