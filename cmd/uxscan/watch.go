package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/uxscan/uxscan/app"
	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/service"
)

// watchDebounce coalesces editor save bursts into one re-audit
const watchDebounce = 300 * time.Millisecond

var (
	watchMinScore     float64
	watchRulebookPath string
	watchConfigPath   string
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-audit snapshots whenever they change",
		Long: `Watch snapshot directories and re-run the audit on every change.

Prints a one-line compliance summary after each run. Stop with Ctrl-C.

Examples:
  uxscan watch snapshots/
  uxscan watch --min-score 85 snapshots/`,
		RunE: runWatch,
	}

	cmd.Flags().Float64Var(&watchMinScore, "min-score", 0,
		"Color the summary red below this score (0 = use grade colors)")
	cmd.Flags().StringVar(&watchRulebookPath, "rulebook", "",
		"Path to a YAML rulebook overlay")
	cmd.Flags().StringVarP(&watchConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, path := range args {
		if err := addWatchTargets(watcher, path); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("nothing to watch")
	}

	loader := service.NewConfigurationLoader()
	var base *domain.AuditRequest
	if watchConfigPath != "" {
		base, err = loader.LoadConfig(watchConfigPath)
		if err != nil {
			return err
		}
	} else {
		base = loader.LoadDefaultConfig()
	}

	req := *base
	req.Paths = args
	if watchRulebookPath != "" {
		req.RulebookPath = watchRulebookPath
	}

	useCase, err := app.NewAuditUseCaseBuilder().
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", strings.Join(args, ", "))
	runWatchAudit(useCase, req)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var timer *time.Timer
	timerCh := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchRelevant(event) {
				continue
			}
			// New directories need watching too
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchTargets(watcher, event.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case timerCh <- struct{}{}:
				default:
				}
			})

		case <-timerCh:
			runWatchAudit(useCase, req)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case <-sigCh:
			fmt.Println("\nStopped.")
			return nil
		}
	}
}

// addWatchTargets registers path and all its subdirectories with the watcher
func addWatchTargets(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// isWatchRelevant filters events down to snapshot file changes and new dirs
func isWatchRelevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == ".html" || ext == ".htm" {
		return true
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// runWatchAudit runs one audit and prints the one-line summary
func runWatchAudit(useCase *app.AuditUseCase, req domain.AuditRequest) {
	start := time.Now()
	response, err := useCase.Execute(context.Background(), req)
	timestamp := time.Now().Format("15:04:05")

	if err != nil {
		fmt.Printf("[%s] %s %v\n", timestamp, color.RedString("ERROR"), err)
		return
	}

	summary := response.Summary
	scoreText := fmt.Sprintf("%.1f/100", summary.OverallCompliance)
	switch {
	case watchMinScore > 0 && summary.OverallCompliance < watchMinScore:
		scoreText = color.RedString(scoreText)
	case summary.OverallCompliance >= domain.ScoreThresholdExcellent:
		scoreText = color.GreenString(scoreText)
	case summary.OverallCompliance >= domain.ScoreThresholdGood:
		scoreText = color.YellowString(scoreText)
	default:
		scoreText = color.RedString(scoreText)
	}

	fmt.Printf("[%s] %s grade %s | %d pages | %d violations, %d issues | %s\n",
		timestamp, scoreText, summary.Grade, summary.PagesAudited,
		summary.TotalViolations, summary.TotalIssues,
		time.Since(start).Round(time.Millisecond))
}
