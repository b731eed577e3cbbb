package enums

import "fmt"

// ProjectStatus tracks the fabrication lifecycle of an order.
//
// Transitions are intentionally unrestricted: the workshop frequently moves
// jobs backwards (rework, re-measurement) so any status can follow any other.
type ProjectStatus string

const (
	ProjectStatusPending              ProjectStatus = "Pending"
	ProjectStatusInProgress           ProjectStatus = "In Progress"
	ProjectStatusCutting              ProjectStatus = "Cutting/Fabricating"
	ProjectStatusReadyForInstallation ProjectStatus = "Ready for Installation"
	ProjectStatusReadyForPayment      ProjectStatus = "Ready for Payment"
	ProjectStatusCompleted            ProjectStatus = "Completed"
)

var validProjectStatuses = []ProjectStatus{
	ProjectStatusPending,
	ProjectStatusInProgress,
	ProjectStatusCutting,
	ProjectStatusReadyForInstallation,
	ProjectStatusReadyForPayment,
	ProjectStatusCompleted,
}

var projectStatusProgress = map[ProjectStatus]int{
	ProjectStatusPending:              15,
	ProjectStatusInProgress:           35,
	ProjectStatusCutting:              55,
	ProjectStatusReadyForInstallation: 75,
	ProjectStatusReadyForPayment:      90,
	ProjectStatusCompleted:            100,
}

// String implements fmt.Stringer.
func (p ProjectStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProjectStatus.
func (p ProjectStatus) IsValid() bool {
	for _, candidate := range validProjectStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ProgressPercent returns the dashboard progress bar value for the status.
func (p ProjectStatus) ProgressPercent() int {
	return projectStatusProgress[p]
}

// ProjectStatuses returns every known status in lifecycle order.
func ProjectStatuses() []ProjectStatus {
	out := make([]ProjectStatus, len(validProjectStatuses))
	copy(out, validProjectStatuses)
	return out
}

// ParseProjectStatus converts raw input into a ProjectStatus.
func ParseProjectStatus(value string) (ProjectStatus, error) {
	for _, candidate := range validProjectStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid project status %q", value)
}
