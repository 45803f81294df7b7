package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPlanRendersIntervalTable(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeTestFile(t, filepath.Join(env.baseDir, "talk.srt"), sampleSRT)

	stdout, _, err := runCLI(t, env, "plan", srt)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, stdout, "00:00:01,000")
	requireContains(t, stdout, "00:00:03,000")
	requireContains(t, stdout, "00:00:10,000")
	requireContains(t, stdout, "00:00:11,500")
	requireContains(t, stdout, "Cues: 3, intervals: 2, collapsed gaps: 1")
	requireContains(t, stdout, "Kept 3.5s of 11.5s, removed 8s")
}

func TestPlanHonorsGapFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeTestFile(t, filepath.Join(env.baseDir, "talk.srt"), sampleSRT)

	stdout, _, err := runCLI(t, env, "plan", "--gap", "10", srt)
	if err != nil {
		t.Fatalf("plan --gap 10: %v", err)
	}
	requireContains(t, stdout, "Cues: 3, intervals: 1, collapsed gaps: 2")
	requireContains(t, stdout, "Kept 10.5s of 11.5s, removed 1s")
}

func TestPlanRejectsUnknownStrategy(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeTestFile(t, filepath.Join(env.baseDir, "talk.srt"), sampleSRT)

	_, _, err := runCLI(t, env, "plan", "--strategy", "chop", srt)
	if err == nil || !strings.Contains(err.Error(), "unknown cut strategy") {
		t.Fatalf("expected strategy error, got %v", err)
	}
}

func TestPlanEmptySubtitleIsNoop(t *testing.T) {
	env := setupCLITestEnv(t)
	srt := writeTestFile(t, filepath.Join(env.baseDir, "empty.srt"), "")

	stdout, _, err := runCLI(t, env, "plan", srt)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, stdout, "nothing to cut")
}

func TestPlanMissingSubtitle(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "plan", filepath.Join(env.baseDir, "absent.srt"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
