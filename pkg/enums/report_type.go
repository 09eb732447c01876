package enums

import (
	"fmt"
	"strings"
)

// ReportType selects the shape produced by the reporting endpoint.
type ReportType string

const (
	ReportTypeRecap   ReportType = "rekap"
	ReportTypeSLA     ReportType = "sla"
	ReportTypeTickets ReportType = "tickets"
)

var validReportTypes = []ReportType{
	ReportTypeRecap,
	ReportTypeSLA,
	ReportTypeTickets,
}

func (r ReportType) String() string {
	return string(r)
}

func (r ReportType) IsValid() bool {
	for _, candidate := range validReportTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReportType defaults to the ticket listing when the value is empty.
func ParseReportType(value string) (ReportType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ReportTypeTickets, nil
	}
	if ReportType(trimmed).IsValid() {
		return ReportType(trimmed), nil
	}
	return "", fmt.Errorf("invalid report type %q", value)
}
