package domain

import "sync"

// Session accumulates the reports produced during one audit run. Reports are
// append-only and appends are serialized, so component and pattern audits may
// run concurrently across pages without interleaving partial writes. A session
// is created at audit start, read by the aggregator, and discarded afterwards.
type Session struct {
	mu               sync.Mutex
	componentReports []ComponentUsageReport
	patternReports   []PatternComplianceReport
}

// NewSession creates an empty audit session
func NewSession() *Session {
	return &Session{}
}

// AddComponentReport appends a component report to the session
func (s *Session) AddComponentReport(report ComponentUsageReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.componentReports = append(s.componentReports, report)
}

// AddPatternReport appends a pattern report to the session
func (s *Session) AddPatternReport(report PatternComplianceReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patternReports = append(s.patternReports, report)
}

// ComponentReports returns a copy of the accumulated component reports in
// append order
func (s *Session) ComponentReports() []ComponentUsageReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := make([]ComponentUsageReport, len(s.componentReports))
	copy(reports, s.componentReports)
	return reports
}

// PatternReports returns a copy of the accumulated pattern reports in
// append order
func (s *Session) PatternReports() []PatternComplianceReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := make([]PatternComplianceReport, len(s.patternReports))
	copy(reports, s.patternReports)
	return reports
}

// Counts returns the number of component and pattern reports accumulated
func (s *Session) Counts() (components int, patterns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.componentReports), len(s.patternReports)
}
