package service

import (
	"context"
	"encoding/json"
	"os"

	"github.com/uxscan/uxscan/domain"
)

// DefaultPerformanceScore is used when no metrics artifact is supplied. The
// engine never measures performance itself; this stands in for an external
// provider.
const DefaultPerformanceScore = 85

// StaticPerformanceProvider returns a fixed performance score
type StaticPerformanceProvider struct {
	Value float64
}

// NewStaticPerformanceProvider creates a provider with a fixed score
func NewStaticPerformanceProvider(value float64) *StaticPerformanceProvider {
	return &StaticPerformanceProvider{Value: value}
}

// Score returns the fixed score clamped to [0,100]
func (p *StaticPerformanceProvider) Score(_ context.Context) (float64, error) {
	return domain.ClampScore(p.Value), nil
}

// performanceArtifact is the JSON shape an external metrics tool writes
type performanceArtifact struct {
	PerformanceScore float64 `json:"performanceScore"`
}

// FilePerformanceProvider reads the performance score from an external
// metrics artifact
type FilePerformanceProvider struct {
	Path string
}

// NewFilePerformanceProvider creates a provider reading from path
func NewFilePerformanceProvider(path string) *FilePerformanceProvider {
	return &FilePerformanceProvider{Path: path}
}

// Score reads and clamps the artifact's performance number
func (p *FilePerformanceProvider) Score(_ context.Context) (float64, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, domain.NewFileNotFoundError(p.Path, err)
	}
	var artifact performanceArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return 0, domain.NewParseError(p.Path, err)
	}
	return domain.ClampScore(artifact.PerformanceScore), nil
}
