package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/runtime/checker"
)

func TestCleanProgram(t *testing.T) {
	report := checker.Run("Local number &n;\n&n = Round(3.7, 0);\n")
	assert.True(t, report.Clean())
	assert.Empty(t, report.Issues)
}

func TestBuiltinArgumentMismatch(t *testing.T) {
	report := checker.Run("&s = Upper(42);\n")
	require.Len(t, report.Issues, 1)
	assert.Equal(t, checker.SeverityError, report.Issues[0].Severity)
	assert.Equal(t, "Upper(): Argument 1 should be string, found integer", report.Issues[0].Message)
	assert.False(t, report.Clean())
}

func TestUnknownFunctionSuggestsClosest(t *testing.T) {
	report := checker.Run("&s = Uper(\"x\");\n")
	require.Len(t, report.Issues, 1)

	issue := report.Issues[0]
	assert.Equal(t, checker.SeverityWarning, issue.Severity)
	assert.Contains(t, issue.Message, "unknown function Uper()")
	assert.Contains(t, issue.Message, "Upper()")
	assert.True(t, report.Clean(), "warnings alone leave the report clean")
}

func TestLocalFunctionChecked(t *testing.T) {
	source := "Function Greet(&name As string) Returns string\n" +
		"   Return \"hi \" | &name;\n" +
		"End-Function;\n" +
		"&msg = Greet(5);\n"
	report := checker.Run(source)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "Greet(): Argument 1 should be string, found integer", report.Issues[0].Message)
}

func TestParseDiagnosticsSurface(t *testing.T) {
	report := checker.Run("If &x Then\n   &y = 1;\n")
	assert.False(t, report.Clean())
	require.NotEmpty(t, report.Issues)
}

func TestIssuesSortedByPosition(t *testing.T) {
	report := checker.Run("&a = Upper(1);\n&b = Lower(2);\n")
	require.Len(t, report.Issues, 2)
	assert.Less(t, report.Issues[0].Span.Start.Offset, report.Issues[1].Span.Start.Offset)
}

func TestMethodCallsAreNotFlagged(t *testing.T) {
	report := checker.Run("Local array of number &a;\n&a.Push(1);\n")
	assert.Empty(t, report.Issues)
}
