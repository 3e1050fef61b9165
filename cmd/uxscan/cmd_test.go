package main

import (
	"testing"
)

func TestAuditCmd_FlagsExist(t *testing.T) {
	cmd := auditCmd()

	expectedFlags := []string{
		"format", "output", "config", "rulebook", "components", "patterns",
		"sort", "performance-score", "performance-report", "details",
		"recursive", "json", "html", "no-open",
	}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestAuditCmd_ShortFlags(t *testing.T) {
	cmd := auditCmd()

	shortFlags := map[string]string{
		"f": "format",
		"o": "output",
		"c": "config",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestAuditCmd_DefaultValues(t *testing.T) {
	cmd := auditCmd()

	formatFlag := cmd.Flags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("format flag not found")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("Expected default format to be 'text', got '%s'", formatFlag.DefValue)
	}

	sortFlag := cmd.Flags().Lookup("sort")
	if sortFlag == nil {
		t.Fatal("sort flag not found")
	}
	if sortFlag.DefValue != "name" {
		t.Errorf("Expected default sort to be 'name', got '%s'", sortFlag.DefValue)
	}

	recursiveFlag := cmd.Flags().Lookup("recursive")
	if recursiveFlag == nil {
		t.Fatal("recursive flag not found")
	}
	if recursiveFlag.DefValue != "true" {
		t.Errorf("Expected recursive to default to true, got '%s'", recursiveFlag.DefValue)
	}
}

func TestAuditCmd_NoPathsError(t *testing.T) {
	cmd := auditCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error when no paths specified")
	}
}

func TestCheckCmd_FlagsExist(t *testing.T) {
	cmd := checkCmd()

	expectedFlags := []string{"min-score", "min-accessibility", "rulebook", "config", "verbose", "json"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestCheckCmd_ShortFlags(t *testing.T) {
	cmd := checkCmd()

	shortFlags := map[string]string{
		"c": "config",
		"v": "verbose",
	}

	for short, long := range shortFlags {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestCheckCmd_NoPathsError(t *testing.T) {
	cmd := checkCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error when no paths specified")
	}
}

func TestCheckExitError_Error(t *testing.T) {
	err := &CheckExitError{Code: 2, Message: "audit failed"}
	if err.Error() != "audit failed" {
		t.Errorf("Error() should return message, got '%s'", err.Error())
	}
}

func TestRulesCmd_FlagsExist(t *testing.T) {
	cmd := rulesCmd()

	if cmd.Flags().Lookup("rulebook") == nil {
		t.Error("Missing expected flag: --rulebook")
	}
}

func TestWatchCmd_FlagsExist(t *testing.T) {
	cmd := watchCmd()

	expectedFlags := []string{"min-score", "rulebook", "config"}
	for _, flagName := range expectedFlags {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestWatchCmd_NoPathsError(t *testing.T) {
	cmd := watchCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error when no paths specified")
	}
}

func TestVersionCmd_FlagsExist(t *testing.T) {
	cmd := versionCmd()

	if cmd == nil {
		t.Fatal("versionCmd should not return nil")
	}
	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("Missing expected flag: --verbose")
	}
}

func TestVersionCmd_ShortFlag(t *testing.T) {
	cmd := versionCmd()

	if cmd.Flags().ShorthandLookup("v") == nil {
		t.Error("Missing short flag -v for --verbose")
	}
}
