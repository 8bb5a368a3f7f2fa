package valueobjects

import (
	"fmt"
	"strings"
)

type AssignmentType string

const (
	AssignmentImmediate AssignmentType = "immediate"
	AssignmentScheduled AssignmentType = "scheduled"
)

var ValidAssignmentTypes = map[AssignmentType]bool{
	AssignmentImmediate: true,
	AssignmentScheduled: true,
}

func ParseAssignmentType(value string) (AssignmentType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	at := AssignmentType(normalized)
	if !ValidAssignmentTypes[at] {
		return "", fmt.Errorf("invalid assignment type: %s", value)
	}
	return at, nil
}

func (a AssignmentType) String() string {
	return string(a)
}

type DurationType string

const (
	DurationPermanent DurationType = "permanent"
	DurationTemporary DurationType = "temporary"
)

var ValidDurationTypes = map[DurationType]bool{
	DurationPermanent: true,
	DurationTemporary: true,
}

func ParseDurationType(value string) (DurationType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	dt := DurationType(normalized)
	if !ValidDurationTypes[dt] {
		return "", fmt.Errorf("invalid duration type: %s", value)
	}
	return dt, nil
}

func (d DurationType) String() string {
	return string(d)
}
