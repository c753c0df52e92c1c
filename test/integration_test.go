// ABOUTME: Integration tests for the focus CLI.
// ABOUTME: Builds the binary and drives a full record/stats/awards workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	focusBinary := filepath.Join(projectRoot, "focus")

	buildCmd := exec.Command("go", "build", "-o", focusBinary, "./cmd/focus")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(focusBinary)

	// Redirect data and config to a temp directory
	tmpDir := t.TempDir()

	run := func(args ...string) (string, error) {
		cmd := exec.Command(focusBinary, args...)
		cmd.Env = append(os.Environ(),
			"XDG_DATA_HOME="+tmpDir,
			"XDG_CONFIG_HOME="+tmpDir,
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Initialize and report the schema
	output, err := run("init")
	if err != nil {
		t.Fatalf("Failed to init: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Database ready") {
		t.Errorf("Expected 'Database ready' in output, got: %s", output)
	}

	// Record three consecutive qualifying days
	for _, day := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		output, err = run("record", "standard", "--at", day+" 09:00")
		if err != nil {
			t.Fatalf("Failed to record on %s: %v\n%s", day, err, output)
		}
		if !strings.Contains(output, "Recorded standard session") {
			t.Errorf("Expected record confirmation, got: %s", output)
		}
	}

	// An abandoned session still lands in the log
	output, err = run("record", "deep", "--abandoned", "-m", "12", "--at", "2025-03-12 14:00")
	if err != nil {
		t.Fatalf("Failed to record abandoned session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "abandoned") {
		t.Errorf("Expected abandoned state in output, got: %s", output)
	}

	// Listing shows both presets
	output, err = run("sessions")
	if err != nil {
		t.Fatalf("Failed to list sessions: %v\n%s", err, output)
	}
	if !strings.Contains(output, "standard") || !strings.Contains(output, "deep") {
		t.Errorf("Expected standard and deep sessions in list, got: %s", output)
	}

	// Stats reflect the three-day streak
	output, err = run("stats")
	if err != nil {
		t.Fatalf("Failed to show stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "3 day(s)") {
		t.Errorf("Expected 3-day streak in stats, got: %s", output)
	}

	output, err = run("stats", "weekly")
	if err != nil {
		t.Fatalf("Failed to show weekly stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2025-W11") {
		t.Errorf("Expected 2025-W11 in weekly stats, got: %s", output)
	}

	// The streak achievement is unlocked in the gallery
	output, err = run("awards")
	if err != nil {
		t.Fatalf("Failed to show awards: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Getting Started") {
		t.Errorf("Expected 'Getting Started' award in gallery, got: %s", output)
	}

	output, err = run("awards", "next")
	if err != nil {
		t.Fatalf("Failed to show next award: %v\n%s", err, output)
	}
	if strings.TrimSpace(output) == "" {
		t.Error("Expected a next-award suggestion")
	}

	// Rebuild reproduces the same derived state
	output, err = run("rebuild")
	if err != nil {
		t.Fatalf("Failed to rebuild: %v\n%s", err, output)
	}
	if !strings.Contains(output, "streak 3 day(s)") {
		t.Errorf("Expected rebuilt streak of 3, got: %s", output)
	}
}
