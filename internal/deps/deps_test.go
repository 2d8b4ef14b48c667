package deps_test

import (
	"strings"
	"testing"

	"cadenza/internal/deps"
)

func TestVersionLine(t *testing.T) {
	line := deps.VersionLine()
	if !strings.HasPrefix(line, "cadenza ") {
		t.Fatalf("version line = %q", line)
	}
	if !strings.Contains(line, deps.Version()) {
		t.Fatalf("version line should carry the version, got %q", line)
	}
}

func TestReportContainsRuntimeRows(t *testing.T) {
	report := deps.Report()
	for _, want := range []string{"cadenza", "go", "platform"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}
