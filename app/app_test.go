package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/testutil"
	"github.com/uxscan/uxscan/service"
)

const compliantPage = `<!DOCTYPE html>
<html><head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>
a:focus { outline: 2px solid #005fcc; }
button:focus { box-shadow: 0 0 0 3px #005fcc; }
input:focus { outline: 1px solid #005fcc; }
</style>
<title>Settings</title>
</head><body>
<header>Site</header>
<nav aria-label="breadcrumb"><a href="/">Home</a><span aria-current="page">Settings</span></nav>
<main>
<h1>Settings</h1>
<h2>Profile</h2>
<div class="form-group"><label>Name</label><input type="text"></div>
<button data-intent="primary" data-size="medium">Save</button>
<div class="card"><img src="avatar.png" alt="Profile avatar"></div>
</main>
<footer>Legal</footer>
</body></html>`

const violatingPage = `<!DOCTYPE html>
<html><body>
<h1>One</h1><h1>Two</h1>
<button data-intent="flashy"></button>
<div class="form-group"><input type="text"></div>
<img src="chart.png">
</body></html>`

func newTestUseCase(t *testing.T) *AuditUseCase {
	t.Helper()
	uc, err := NewAuditUseCaseBuilder().
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		t.Fatalf("Failed to build use case: %v", err)
	}
	return uc
}

func baseRequest(paths ...string) domain.AuditRequest {
	return domain.AuditRequest{
		Paths:        paths,
		OutputFormat: domain.OutputFormatText,
		SortBy:       domain.SortByName,
		Recursive:    true,
	}
}

func assertRequestCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("Expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Errorf("Expected code %s, got %s", code, domainErr.Code)
	}
}

func TestAuditUseCase_CompliantPage(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "settings.html", compliantPage)

	response, err := newTestUseCase(t).Execute(context.Background(), baseRequest(dir))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if response.Summary.PagesAudited != 1 {
		t.Errorf("Expected 1 page audited, got %d", response.Summary.PagesAudited)
	}
	if response.Summary.TotalViolations != 0 {
		t.Errorf("Expected no violations, got %d: %+v",
			response.Summary.TotalViolations, response.Metrics.ComponentUsage)
	}
	if response.Summary.TotalIssues != 0 {
		t.Errorf("Expected no issues, got %d: %+v",
			response.Summary.TotalIssues, response.Metrics.PatternCompliance)
	}
	if response.Summary.ComponentScore != 100 {
		t.Errorf("Expected component score 100, got %g", response.Summary.ComponentScore)
	}
	if response.RulebookVersion != "2025.2" {
		t.Errorf("Unexpected rulebook version: %s", response.RulebookVersion)
	}
	if len(response.Metrics.ComponentUsage) != 3 {
		t.Errorf("Expected 3 component reports, got %d", len(response.Metrics.ComponentUsage))
	}
	if len(response.Metrics.PatternCompliance) != 7 {
		t.Errorf("Expected 7 pattern reports, got %d", len(response.Metrics.PatternCompliance))
	}
}

func TestAuditUseCase_ViolatingPage(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "broken.html", violatingPage)

	response, err := newTestUseCase(t).Execute(context.Background(), baseRequest(dir))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if response.Summary.TotalViolations == 0 {
		t.Error("Expected component violations on the violating page")
	}
	if response.Summary.TotalIssues == 0 {
		t.Error("Expected pattern issues on the violating page")
	}
	if response.Summary.Grade == "A" {
		t.Errorf("Violating page should not grade A, got overall %g", response.Summary.OverallCompliance)
	}
}

func TestAuditUseCase_PagesSortedByPath(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "zulu.html", compliantPage)
	testutil.WriteSnapshotFile(t, dir, "alpha.html", compliantPage)
	testutil.WriteSnapshotFile(t, dir, "mike.html", compliantPage)

	response, err := newTestUseCase(t).Execute(context.Background(), baseRequest(dir))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(response.Pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(response.Pages))
	}
	for i := 1; i < len(response.Pages); i++ {
		if response.Pages[i-1].Path > response.Pages[i].Path {
			t.Errorf("Pages not sorted: %s before %s", response.Pages[i-1].Path, response.Pages[i].Path)
		}
	}
}

func TestAuditUseCase_ScopeNarrowing(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	req := baseRequest(dir)
	req.ComponentTypes = []string{"Button"}
	req.Patterns = []string{"Headings", "Media"}

	response, err := newTestUseCase(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(response.Metrics.ComponentUsage) != 1 || response.Metrics.ComponentUsage[0].ComponentName != "Button" {
		t.Errorf("Expected only Button report, got %+v", response.Metrics.ComponentUsage)
	}
	if len(response.Metrics.PatternCompliance) != 2 {
		t.Errorf("Expected 2 pattern reports, got %d", len(response.Metrics.PatternCompliance))
	}
}

func TestAuditUseCase_UnknownComponent(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	req := baseRequest(dir)
	req.ComponentTypes = []string{"Carousel"}

	_, err := newTestUseCase(t).Execute(context.Background(), req)
	if err == nil {
		t.Fatal("Expected error for unknown component type")
	}
	assertRequestCode(t, err, domain.ErrCodeConfigError)
}

func TestAuditUseCase_UnknownPattern(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	req := baseRequest(dir)
	req.Patterns = []string{"Gestures"}

	_, err := newTestUseCase(t).Execute(context.Background(), req)
	if err == nil {
		t.Fatal("Expected error for unknown pattern")
	}
	assertRequestCode(t, err, domain.ErrCodeConfigError)
}

func TestAuditUseCase_NoSnapshots(t *testing.T) {
	dir := t.TempDir()

	_, err := newTestUseCase(t).Execute(context.Background(), baseRequest(dir))
	if err == nil {
		t.Fatal("Expected error when no snapshots are found")
	}
	assertRequestCode(t, err, domain.ErrCodeInvalidInput)
}

func TestAuditUseCase_NoPaths(t *testing.T) {
	_, err := newTestUseCase(t).Execute(context.Background(), baseRequest())
	if err == nil {
		t.Fatal("Expected error for empty path list")
	}
	assertRequestCode(t, err, domain.ErrCodeInvalidInput)
}

func TestAuditUseCase_PerformanceArtifact(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	artifact := filepath.Join(dir, "lighthouse.json")
	if err := os.WriteFile(artifact, []byte(`{"performanceScore": 63}`), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	req := baseRequest(dir)
	req.PerformanceReportPath = artifact

	response, err := newTestUseCase(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if response.Metrics.PerformanceScore != 63 {
		t.Errorf("Expected artifact score 63, got %g", response.Metrics.PerformanceScore)
	}
	if len(response.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", response.Warnings)
	}
}

func TestAuditUseCase_BrokenArtifactDegrades(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	artifact := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(artifact, []byte("not json"), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	req := baseRequest(dir)
	req.PerformanceScore = 55
	req.PerformanceReportPath = artifact

	response, err := newTestUseCase(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("A broken artifact must degrade, not fail: %v", err)
	}

	if response.Metrics.PerformanceScore != 55 {
		t.Errorf("Expected fixed score 55, got %g", response.Metrics.PerformanceScore)
	}
	if len(response.Warnings) != 1 || !strings.Contains(response.Warnings[0], "unusable") {
		t.Errorf("Expected degradation warning, got %v", response.Warnings)
	}
}

func TestAuditUseCase_UnreadablePageRecorded(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "good.html", compliantPage)
	locked := testutil.WriteSnapshotFile(t, dir, "locked.html", compliantPage)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	response, err := newTestUseCase(t).Execute(context.Background(), baseRequest(dir))
	if err != nil {
		t.Fatalf("One unreadable page must not fail the run: %v", err)
	}

	if response.Summary.PagesAudited != 1 {
		t.Errorf("Expected 1 audited page, got %d", response.Summary.PagesAudited)
	}
	if len(response.Errors) != 1 || !strings.Contains(response.Errors[0], "locked.html") {
		t.Errorf("Expected the unreadable page in errors, got %v", response.Errors)
	}
}

func TestAuditUseCase_SortByViolations(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", violatingPage)

	req := baseRequest(dir)
	req.SortBy = domain.SortByViolations

	response, err := newTestUseCase(t).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	reports := response.Metrics.ComponentUsage
	for i := 1; i < len(reports); i++ {
		if len(reports[i-1].Violations) < len(reports[i].Violations) {
			t.Errorf("Reports not sorted by violations: %s(%d) before %s(%d)",
				reports[i-1].ComponentName, len(reports[i-1].Violations),
				reports[i].ComponentName, len(reports[i].Violations))
		}
	}
}

func TestAuditUseCase_ExecuteAndWrite(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSnapshotFile(t, dir, "page.html", compliantPage)

	var buf bytes.Buffer
	req := baseRequest(dir)
	req.OutputWriter = &buf

	if _, err := newTestUseCase(t).ExecuteAndWrite(context.Background(), req); err != nil {
		t.Fatalf("ExecuteAndWrite failed: %v", err)
	}

	if !strings.Contains(buf.String(), "=== Design System Compliance Report ===") {
		t.Error("Expected formatted report in output writer")
	}
}

func TestAuditUseCaseBuilder_RequiresFormatter(t *testing.T) {
	if _, err := NewAuditUseCaseBuilder().Build(); err == nil {
		t.Fatal("Expected error when building without a formatter")
	}
}
