package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/uxscan/uxscan/domain"
)

func TestStaticPerformanceProvider(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"in range", 85, 85},
		{"above range clamps", 150, 100},
		{"below range clamps", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := NewStaticPerformanceProvider(tt.value).Score(context.Background())
			if err != nil {
				t.Fatalf("Score failed: %v", err)
			}
			if score != tt.want {
				t.Errorf("Expected %g, got %g", tt.want, score)
			}
		})
	}
}

func TestFilePerformanceProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lighthouse.json")
	if err := os.WriteFile(path, []byte(`{"performanceScore": 72.5}`), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	score, err := NewFilePerformanceProvider(path).Score(context.Background())
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 72.5 {
		t.Errorf("Expected 72.5, got %g", score)
	}
}

func TestFilePerformanceProvider_ClampsArtifactValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	if err := os.WriteFile(path, []byte(`{"performanceScore": 240}`), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	score, err := NewFilePerformanceProvider(path).Score(context.Background())
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 100 {
		t.Errorf("Expected clamp to 100, got %g", score)
	}
}

func TestFilePerformanceProvider_MissingFile(t *testing.T) {
	_, err := NewFilePerformanceProvider(filepath.Join(t.TempDir(), "nope.json")).Score(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing artifact")
	}
	assertCode(t, err, domain.ErrCodeFileNotFound)
}

func TestFilePerformanceProvider_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	_, err := NewFilePerformanceProvider(path).Score(context.Background())
	if err == nil {
		t.Fatal("Expected error for unparsable artifact")
	}
	assertCode(t, err, domain.ErrCodeParseError)
}
