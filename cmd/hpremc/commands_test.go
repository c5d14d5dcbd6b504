package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// runApp invokes the CLI in-process, capturing stdout, the way
// commands_test.go's subprocess helpers capture poly's output but
// without needing a real child process for a single-binary search.
func runApp(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	app := application()
	var buf bytes.Buffer
	app.Writer = &buf
	err = app.Run(append([]string{"hpremc"}, args...))
	return buf.String(), err
}

func assertContains(t *testing.T, haystack, needle, label string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(needle, haystack, false)
	t.Errorf("%s: expected substring not found.\n%s", label, dmp.DiffPrettyText(diffs))
}

func TestMissingSequenceFlagExitsWithValidationCode(t *testing.T) {
	_, err := runApp(t, "--optimal_energy", "-1")
	if err == nil {
		t.Fatal("expected an error when neither --aasequence nor --hpsequence is given")
	}
}

func TestBothSequenceFlagsIsAValidationError(t *testing.T) {
	_, err := runApp(t, "--aasequence", "GRAI", "--hpsequence", "HPHP", "--optimal_energy", "-1")
	if err == nil {
		t.Fatal("expected an error when both --aasequence and --hpsequence are given")
	}
}

func TestPositiveOptimalEnergyIsRejected(t *testing.T) {
	_, err := runApp(t, "--hpsequence", "HPHPHPHP", "--optimal_energy", "1")
	if err == nil {
		t.Fatal("expected an error for a positive --optimal_energy")
	}
}

func TestSuccessfulRunPrintsFinalEnergy(t *testing.T) {
	out, err := runApp(t,
		"--hpsequence", "HHPPHPPH",
		"--optimal_energy", "-1000",
		"--step", "2",
		"--nb_iter", "20",
		"--max_rounds", "2",
		"--t_min", "160",
		"--t_max", "200",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, out, "FINAL ENERGY", "stdout transcript")
	assertContains(t, out, "replica 0 energy", "stdout transcript")
}
