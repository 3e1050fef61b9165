package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/config"
	"github.com/uxscan/uxscan/internal/rulebook"
	"github.com/uxscan/uxscan/internal/snapshot"
	"github.com/uxscan/uxscan/internal/version"
	"github.com/uxscan/uxscan/service"
)

// AuditUseCase orchestrates the compliance audit workflow: collect snapshot
// files, audit every page against the rulebook, aggregate scores and hand the
// response to the formatter.
type AuditUseCase struct {
	fileHelper *FileHelper
	formatter  domain.OutputFormatter
	progress   domain.ProgressManager
	auditCfg   *config.AuditConfig
}

// NewAuditUseCase creates a new audit use case with default collaborators
func NewAuditUseCase(formatter domain.OutputFormatter) *AuditUseCase {
	cfg := config.DefaultConfig()
	return &AuditUseCase{
		fileHelper: NewFileHelper(),
		formatter:  formatter,
		auditCfg:   &cfg.Audit,
	}
}

// pageResult is one page's contribution to the run, written into an
// index-addressed slot so parallel completion order never changes output
type pageResult struct {
	audit            domain.PageAudit
	componentReports []domain.ComponentUsageReport
	patternReports   []domain.PatternComplianceReport
	err              error
}

// pageAuditTask audits a single snapshot file against the rulebook. Each task
// owns a private session; the orchestrator merges sessions in input order.
type pageAuditTask struct {
	path           string
	rulebook       *rulebook.Rulebook
	fileHelper     *FileHelper
	componentTypes []string
	patterns       []string
	slot           *pageResult
}

func (t *pageAuditTask) Name() string { return t.path }

func (t *pageAuditTask) IsEnabled() bool { return true }

func (t *pageAuditTask) Execute(ctx context.Context) (interface{}, error) {
	content, err := t.fileHelper.ReadFile(t.path)
	if err != nil {
		t.slot.err = domain.NewFileNotFoundError(t.path, err)
		return nil, t.slot.err
	}

	page, err := snapshot.Parse(t.path, content)
	if err != nil {
		t.slot.err = domain.NewParseError(t.path, err)
		return nil, t.slot.err
	}

	session := domain.NewSession()
	componentAuditor := service.NewComponentAuditor(t.rulebook, session)
	patternAuditor := service.NewPatternAuditor(t.rulebook, session)

	for _, componentType := range t.componentTypes {
		rules, ok := t.rulebook.ComponentRulesFor(componentType)
		if !ok {
			t.slot.err = domain.NewUnknownComponentError(componentType)
			return nil, t.slot.err
		}

		elements, err := page.Query(ctx, rules.Selector)
		if err != nil {
			t.slot.err = domain.NewInspectionError(t.path, err)
			return nil, t.slot.err
		}

		if _, err := componentAuditor.AuditComponent(ctx, componentType, elements); err != nil {
			t.slot.err = err
			return nil, err
		}
	}

	for _, pattern := range t.patterns {
		if _, err := patternAuditor.AuditPattern(ctx, pattern, page); err != nil {
			t.slot.err = err
			return nil, err
		}
	}

	t.slot.componentReports = session.ComponentReports()
	t.slot.patternReports = session.PatternReports()

	violations, issues := 0, 0
	for _, r := range t.slot.componentReports {
		violations += len(r.Violations)
	}
	for _, r := range t.slot.patternReports {
		issues += len(r.Issues)
	}
	t.slot.audit = domain.PageAudit{
		Path:       t.path,
		Components: len(t.slot.componentReports),
		Patterns:   len(t.slot.patternReports),
		Violations: violations,
		Issues:     issues,
	}

	return &t.slot.audit, nil
}

// Execute performs the complete audit workflow
func (uc *AuditUseCase) Execute(ctx context.Context, req domain.AuditRequest) (*domain.AuditResponse, error) {
	startTime := time.Now()

	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	rb, err := uc.loadRulebook(req)
	if err != nil {
		return nil, err
	}

	files, err := ResolveSnapshotPaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect snapshot files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no HTML snapshots found in the specified paths", nil)
	}

	componentTypes, patterns, err := uc.resolveScope(rb, req)
	if err != nil {
		return nil, err
	}

	// Audit pages in parallel, results into index-addressed slots
	slots := make([]pageResult, len(files))
	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = &pageAuditTask{
			path:           file,
			rulebook:       rb,
			fileHelper:     uc.fileHelper,
			componentTypes: componentTypes,
			patterns:       patterns,
			slot:           &slots[i],
		}
	}

	executor := service.NewParallelExecutorWithProgress(uc.auditCfg, uc.progress)
	execErr := executor.Execute(ctx, tasks)

	// Merge per-page sessions in input order so report order is stable
	session := domain.NewSession()
	var response domain.AuditResponse
	audited := 0
	for i := range slots {
		if slots[i].err != nil {
			response.Errors = append(response.Errors, slots[i].err.Error())
			continue
		}
		for _, r := range slots[i].componentReports {
			session.AddComponentReport(r)
		}
		for _, r := range slots[i].patternReports {
			session.AddPatternReport(r)
		}
		response.Pages = append(response.Pages, slots[i].audit)
		audited++
	}

	if audited == 0 {
		if execErr != nil {
			return nil, domain.NewAuditError("all pages failed to audit", execErr)
		}
		return nil, domain.NewAuditError("all pages failed to audit", nil)
	}

	performanceScore, warning := uc.resolvePerformanceScore(ctx, req)
	if warning != "" {
		response.Warnings = append(response.Warnings, warning)
	}

	aggregator := service.NewScoreAggregator()
	metrics := aggregator.Aggregate(session, performanceScore)
	sortComponentReports(metrics.ComponentUsage, req.SortBy)

	response.Metrics = metrics
	response.Summary.PopulateFromMetrics(&metrics)
	response.Summary.PagesAudited = audited
	response.GeneratedAt = startTime.Format(time.RFC3339)
	response.Duration = time.Since(startTime).Milliseconds()
	response.Version = version.Version
	response.RulebookVersion = rb.Version

	return &response, nil
}

// ExecuteAndWrite runs the audit and writes the formatted response to the
// request's output writer
func (uc *AuditUseCase) ExecuteAndWrite(ctx context.Context, req domain.AuditRequest) (*domain.AuditResponse, error) {
	response, err := uc.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return nil, domain.NewOutputError("failed to write audit output", err)
		}
	}

	return response, nil
}

// validateRequest validates the audit request
func (uc *AuditUseCase) validateRequest(req domain.AuditRequest) error {
	if len(req.Paths) == 0 {
		return domain.NewInvalidInputError("no input paths specified", nil)
	}

	if req.PerformanceScore < 0 || req.PerformanceScore > 100 {
		return domain.NewInvalidInputError(
			fmt.Sprintf("performance score must be in [0, 100], got %g", req.PerformanceScore), nil)
	}

	return nil
}

// loadRulebook resolves the active rulebook for this run
func (uc *AuditUseCase) loadRulebook(req domain.AuditRequest) (*rulebook.Rulebook, error) {
	if req.RulebookPath == "" {
		return rulebook.Default(), nil
	}

	rb, err := rulebook.LoadFromFile(req.RulebookPath)
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to load rulebook %s", req.RulebookPath), err)
	}
	return rb, nil
}

// resolveScope expands empty component/pattern lists to everything the
// rulebook knows and rejects unknown names before any page is touched
func (uc *AuditUseCase) resolveScope(rb *rulebook.Rulebook, req domain.AuditRequest) ([]string, []string, error) {
	// Probe auditors on a throwaway session just for their registries
	probe := domain.NewSession()
	componentAuditor := service.NewComponentAuditor(rb, probe)
	patternAuditor := service.NewPatternAuditor(rb, probe)

	knownComponents := componentAuditor.KnownComponents()
	knownPatterns := patternAuditor.KnownPatterns()

	componentTypes := req.ComponentTypes
	if len(componentTypes) == 0 {
		componentTypes = knownComponents
	} else {
		for _, name := range componentTypes {
			if !containsName(knownComponents, name) {
				return nil, nil, domain.NewUnknownComponentError(name)
			}
		}
	}

	patterns := req.Patterns
	if len(patterns) == 0 {
		patterns = knownPatterns
	} else {
		for _, name := range patterns {
			if !containsName(knownPatterns, name) {
				return nil, nil, domain.NewUnknownPatternError(name)
			}
		}
	}

	return componentTypes, patterns, nil
}

// resolvePerformanceScore picks the performance score source: an external
// metrics artifact when configured, otherwise the fixed request value. A
// broken artifact degrades to the fixed value with a warning instead of
// failing the audit.
func (uc *AuditUseCase) resolvePerformanceScore(ctx context.Context, req domain.AuditRequest) (float64, string) {
	fixed := req.PerformanceScore
	if fixed == 0 {
		fixed = service.DefaultPerformanceScore
	}

	if req.PerformanceReportPath == "" {
		return fixed, ""
	}

	provider := service.NewFilePerformanceProvider(req.PerformanceReportPath)
	score, err := provider.Score(ctx)
	if err != nil {
		return fixed, fmt.Sprintf("performance report %s unusable, using fixed score: %v",
			req.PerformanceReportPath, err)
	}
	return score, ""
}

// sortComponentReports orders component reports for output
func sortComponentReports(reports []domain.ComponentUsageReport, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByUsage:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].UsageCount > reports[j].UsageCount
		})
	case domain.SortByViolations:
		sort.SliceStable(reports, func(i, j int) bool {
			return len(reports[i].Violations) > len(reports[j].Violations)
		})
	default:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].ComponentName < reports[j].ComponentName
		})
	}
}

func containsName(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// AuditUseCaseBuilder provides a builder pattern for creating AuditUseCase
type AuditUseCaseBuilder struct {
	fileHelper *FileHelper
	formatter  domain.OutputFormatter
	progress   domain.ProgressManager
	auditCfg   *config.AuditConfig
}

// NewAuditUseCaseBuilder creates a new builder
func NewAuditUseCaseBuilder() *AuditUseCaseBuilder {
	return &AuditUseCaseBuilder{}
}

// WithFormatter sets the output formatter
func (b *AuditUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *AuditUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *AuditUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *AuditUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithProgressManager sets the progress manager
func (b *AuditUseCaseBuilder) WithProgressManager(pm domain.ProgressManager) *AuditUseCaseBuilder {
	b.progress = pm
	return b
}

// WithAuditConfig sets execution limits from configuration
func (b *AuditUseCaseBuilder) WithAuditConfig(cfg *config.AuditConfig) *AuditUseCaseBuilder {
	b.auditCfg = cfg
	return b
}

// Build creates the AuditUseCase with the configured dependencies
func (b *AuditUseCaseBuilder) Build() (*AuditUseCase, error) {
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &AuditUseCase{
		fileHelper: b.fileHelper,
		formatter:  b.formatter,
		progress:   b.progress,
		auditCfg:   b.auditCfg,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	if uc.auditCfg == nil {
		cfg := config.DefaultConfig()
		uc.auditCfg = &cfg.Audit
	}

	return uc, nil
}
