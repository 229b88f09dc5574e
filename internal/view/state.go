// Package view holds page state with explicit transitions and the view models
// rendered by the dashboard templates.
package view

import (
	"time"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// Status is the lifecycle of a page's data
type Status int

const (
	Loading Status = iota
	Loaded
	Errored
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "loading"
	}
}

// ListState is the state of the links table. Transitions return a new value and
// leave the receiver untouched.
type ListState struct {
	Status Status
	Links  []domain.Link
	Error  string
}

// NewListState returns the initial loading state
func NewListState() ListState {
	return ListState{Status: Loading}
}

// Loaded moves to the loaded state with the given links
func (s ListState) Loaded(links []domain.Link) ListState {
	if links == nil {
		links = []domain.Link{}
	}
	return ListState{Status: Loaded, Links: links}
}

// Failed moves to the errored state. A list that was already loaded keeps its
// links so a failed action does not clear the table.
func (s ListState) Failed(err error) ListState {
	next := ListState{Status: Errored, Error: domain.Describe(err).Error}
	if s.Status == Loaded {
		next.Status = Loaded
		next.Links = s.Links
	}
	return next
}

// Remove drops the first link with the given code. Only a loaded list changes.
func (s ListState) Remove(code string) ListState {
	if s.Status != Loaded {
		return s
	}

	links := make([]domain.Link, 0, len(s.Links))
	removed := false
	for _, link := range s.Links {
		if !removed && link.Code == code {
			removed = true
			continue
		}
		links = append(links, link)
	}
	return ListState{Status: Loaded, Links: links, Error: s.Error}
}

// Empty reports whether a loaded list has no links
func (s ListState) Empty() bool {
	return s.Status == Loaded && len(s.Links) == 0
}

// MetricsState is the state of the metrics page
type MetricsState struct {
	Status Status
	Report domain.MetricsReport
	Error  string
}

// NewMetricsState returns the initial loading state
func NewMetricsState() MetricsState {
	return MetricsState{Status: Loading}
}

// Loaded moves to the loaded state
func (s MetricsState) Loaded(report *domain.MetricsReport) MetricsState {
	next := MetricsState{Status: Loaded}
	if report != nil {
		next.Report = *report
	}
	if next.Report.Data == nil {
		next.Report.Data = []domain.DomainCount{}
	}
	return next
}

// Failed moves to the errored state
func (s MetricsState) Failed(err error) MetricsState {
	return MetricsState{Status: Errored, Error: domain.Describe(err).Error}
}

// TotalClicks sums the counts of every domain
func (s MetricsState) TotalClicks() int64 {
	var total int64
	for _, d := range s.Report.Data {
		total += d.Count
	}
	return total
}

// TopDomain is the first domain in the report, or "-" when there is none
func (s MetricsState) TopDomain() string {
	if len(s.Report.Data) == 0 {
		return "-"
	}
	return s.Report.Data[0].Domain
}

// Empty reports whether a loaded report has no activity
func (s MetricsState) Empty() bool {
	return s.Status == Loaded && len(s.Report.Data) == 0
}

// FormatTime renders a timestamp for display, or the placeholder for zero values
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return domain.Placeholder
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
