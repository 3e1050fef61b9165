package service

import (
	"html/template"
	"io"
	"strings"

	"github.com/uxscan/uxscan/domain"
)

// htmlReportData is the template payload for the HTML report
type htmlReportData struct {
	Response      *domain.AuditResponse
	HasComponents bool
	HasPatterns   bool
	HasPages      bool
}

// WriteHTML writes the audit response as a single-page HTML report
func (f *OutputFormatterImpl) WriteHTML(response *domain.AuditResponse, writer io.Writer) error {
	data := htmlReportData{
		Response:      response,
		HasComponents: len(response.Metrics.ComponentUsage) > 0,
		HasPatterns:   len(response.Metrics.PatternCompliance) > 0,
		HasPages:      len(response.Pages) > 0,
	}

	funcMap := template.FuncMap{
		"join": func(elems []string, sep string) string {
			return strings.Join(elems, sep)
		},
		"score": func(v float64) string {
			return formatScore(v)
		},
		"scoreQuality": func(v float64) string {
			switch {
			case v >= domain.ScoreThresholdExcellent:
				return "excellent"
			case v >= domain.ScoreThresholdGood:
				return "good"
			case v >= domain.ScoreThresholdFair:
				return "fair"
			default:
				return "poor"
			}
		},
		"gradeClass": func(grade string) string {
			switch grade {
			case "A":
				return "grade-a"
			case "B":
				return "grade-b"
			case "C":
				return "grade-c"
			case "D":
				return "grade-d"
			default:
				return "grade-f"
			}
		},
	}

	tmpl := template.Must(template.New("audit").Funcs(funcMap).Parse(htmlTemplate))
	return tmpl.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>uxscan Compliance Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .header h1 {
            color: #667eea;
            margin-bottom: 10px;
        }
        .header .subtitle {
            color: #666;
            font-size: 14px;
        }
        .score-badge {
            display: inline-block;
            padding: 10px 20px;
            border-radius: 50px;
            font-size: 24px;
            font-weight: bold;
            margin: 10px 0;
        }
        .grade-a { background: #4caf50; color: white; }
        .grade-b { background: #8bc34a; color: white; }
        .grade-c { background: #ff9800; color: white; }
        .grade-d { background: #ff5722; color: white; }
        .grade-f { background: #f44336; color: white; }

        .tabs {
            background: white;
            border-radius: 10px;
            overflow: hidden;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .tab-buttons {
            display: flex;
            background: #f5f5f5;
        }
        .tab-button {
            flex: 1;
            padding: 15px;
            border: none;
            background: transparent;
            cursor: pointer;
            font-size: 16px;
            transition: all 0.3s;
        }
        .tab-button.active {
            background: white;
            color: #667eea;
            font-weight: bold;
        }
        .tab-content {
            display: none;
            padding: 30px;
        }
        .tab-content.active {
            display: block;
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card {
            background: #f8f9fa;
            padding: 20px;
            border-radius: 8px;
            text-align: center;
        }
        .metric-value {
            font-size: 32px;
            font-weight: bold;
            color: #667eea;
        }
        .metric-label {
            color: #666;
            margin-top: 5px;
        }

        .table {
            width: 100%;
            border-collapse: collapse;
            margin: 20px 0;
        }
        .table th, .table td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid #ddd;
        }
        .table th {
            background: #f8f9fa;
            font-weight: 600;
        }

        .status-pass { color: #4caf50; font-weight: 600; }
        .status-fail { color: #f44336; font-weight: 600; }
        .status-partial { color: #ff9800; font-weight: 600; }

        .finding-list {
            margin: 4px 0 0 18px;
            font-size: 13px;
            color: #666;
        }

        .score-bars {
            margin: 20px 0;
        }
        .score-bar-item {
            margin-bottom: 24px;
        }
        .score-bar-header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 6px;
            font-size: 14px;
        }
        .score-label {
            font-weight: 600;
            color: #333;
        }
        .score-value {
            font-weight: 700;
            color: #667eea;
        }
        .score-bar-container {
            width: 100%;
            height: 12px;
            background: #e0e0e0;
            border-radius: 6px;
            overflow: hidden;
        }
        .score-bar-fill {
            height: 100%;
            transition: width 0.3s ease;
            border-radius: 6px;
        }
        .score-excellent { background: linear-gradient(90deg, #4caf50, #66bb6a); }
        .score-good { background: linear-gradient(90deg, #8bc34a, #9ccc65); }
        .score-fair { background: linear-gradient(90deg, #ff9800, #ffa726); }
        .score-poor { background: linear-gradient(90deg, #f44336, #ef5350); }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>uxscan Compliance Report</h1>
            <p class="subtitle">Generated: {{.Response.GeneratedAt}} | Duration: {{.Response.Duration}}ms | Version: {{.Response.Version}} | Rulebook: {{.Response.RulebookVersion}}</p>
            <div class="score-badge {{gradeClass .Response.Summary.Grade}}">
                Compliance: {{score .Response.Summary.OverallCompliance}}/100 (Grade: {{.Response.Summary.Grade}})
            </div>
        </div>

        <div class="tabs">
            <div class="tab-buttons">
                <button class="tab-button active" onclick="showTab('summary', this)">Summary</button>
                {{if .HasComponents}}
                <button class="tab-button" onclick="showTab('components', this)">Components</button>
                {{end}}
                {{if .HasPatterns}}
                <button class="tab-button" onclick="showTab('patterns', this)">Patterns</button>
                {{end}}
            </div>

            <div id="summary" class="tab-content active">
                <h2>Compliance Summary</h2>

                <div class="score-bars">
                    <div class="score-bar-item">
                        <div class="score-bar-header">
                            <span class="score-label">Components</span>
                            <span class="score-value">{{score .Response.Summary.ComponentScore}}/100</span>
                        </div>
                        <div class="score-bar-container">
                            <div class="score-bar-fill score-{{scoreQuality .Response.Summary.ComponentScore}}" style="width: {{score .Response.Summary.ComponentScore}}%"></div>
                        </div>
                    </div>
                    <div class="score-bar-item">
                        <div class="score-bar-header">
                            <span class="score-label">Patterns</span>
                            <span class="score-value">{{score .Response.Summary.PatternScore}}/100</span>
                        </div>
                        <div class="score-bar-container">
                            <div class="score-bar-fill score-{{scoreQuality .Response.Summary.PatternScore}}" style="width: {{score .Response.Summary.PatternScore}}%"></div>
                        </div>
                    </div>
                    <div class="score-bar-item">
                        <div class="score-bar-header">
                            <span class="score-label">Accessibility</span>
                            <span class="score-value">{{score .Response.Summary.AccessibilityScore}}/100</span>
                        </div>
                        <div class="score-bar-container">
                            <div class="score-bar-fill score-{{scoreQuality .Response.Summary.AccessibilityScore}}" style="width: {{score .Response.Summary.AccessibilityScore}}%"></div>
                        </div>
                    </div>
                    <div class="score-bar-item">
                        <div class="score-bar-header">
                            <span class="score-label">Performance</span>
                            <span class="score-value">{{score .Response.Summary.PerformanceScore}}/100</span>
                        </div>
                        <div class="score-bar-container">
                            <div class="score-bar-fill score-{{scoreQuality .Response.Summary.PerformanceScore}}" style="width: {{score .Response.Summary.PerformanceScore}}%"></div>
                        </div>
                    </div>
                </div>

                <div class="metric-grid">
                    <div class="metric-card">
                        <div class="metric-value">{{.Response.Summary.PagesAudited}}</div>
                        <div class="metric-label">Pages Audited</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Response.Summary.TotalElements}}</div>
                        <div class="metric-label">Elements Checked</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Response.Summary.TotalViolations}}</div>
                        <div class="metric-label">Violations</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Response.Summary.TotalIssues}}</div>
                        <div class="metric-label">Pattern Issues</div>
                    </div>
                </div>
            </div>

            {{if .HasComponents}}
            <div id="components" class="tab-content">
                <h2>Component Usage</h2>
                <table class="table">
                    <thead>
                        <tr>
                            <th>Component</th>
                            <th>Elements</th>
                            <th>Status</th>
                            <th>Findings</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Response.Metrics.ComponentUsage}}
                        <tr>
                            <td>{{.ComponentName}}</td>
                            <td>{{.UsageCount}}</td>
                            {{if .CorrectUsage}}
                            <td class="status-pass">PASS</td>
                            {{else}}
                            <td class="status-fail">FAIL</td>
                            {{end}}
                            <td>
                                {{if .Violations}}
                                <ul class="finding-list">
                                    {{range .Violations}}<li>{{.}}</li>{{end}}
                                </ul>
                                {{end}}
                                {{if .Recommendations}}
                                <ul class="finding-list">
                                    {{range .Recommendations}}<li>Tip: {{.}}</li>{{end}}
                                </ul>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{if .HasPatterns}}
            <div id="patterns" class="tab-content">
                <h2>Pattern Compliance</h2>
                <table class="table">
                    <thead>
                        <tr>
                            <th>Pattern</th>
                            <th>Score</th>
                            <th>Status</th>
                            <th>Issues</th>
                            <th>Reference</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Response.Metrics.PatternCompliance}}
                        <tr>
                            <td>{{.Pattern}}</td>
                            <td>{{score .Score}}</td>
                            {{if .Implemented}}
                            <td class="status-pass">PASS</td>
                            {{else}}
                            <td class="status-partial">PARTIAL</td>
                            {{end}}
                            <td>
                                {{if .Issues}}
                                <ul class="finding-list">
                                    {{range .Issues}}<li>{{.}}</li>{{end}}
                                </ul>
                                {{end}}
                            </td>
                            <td><a href="{{.Reference}}">docs</a></td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>

    <script>
        function showTab(tabName, el) {
            const tabs = document.querySelectorAll('.tab-content');
            tabs.forEach(tab => tab.classList.remove('active'));

            const buttons = document.querySelectorAll('.tab-button');
            buttons.forEach(btn => btn.classList.remove('active'));

            document.getElementById(tabName).classList.add('active');
            if (el) { el.classList.add('active'); }
        }
    </script>
</body>
</html>`
