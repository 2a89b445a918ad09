// Package treetest compares rendered trees against expected text, for tests
// and for the treeview check command.
package treetest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// UpdateEnv names the variable that makes CheckFixture rewrite fixtures
// instead of comparing against them.
const UpdateEnv = "TREEDISPLAY_UPDATE_FIXTURES"

// MismatchError is returned when rendered output differs from the expected
// text.
type MismatchError struct {
	Expected string
	Actual   string
	Lines    []Line
}

func (e *MismatchError) Error() string {
	return "rendered tree differs from expected (-expected +actual):\n" + Format(e.Lines)
}

// Normalize strips carriage returns so fixtures checked out with CRLF line
// endings compare equal.
func Normalize(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

// Compare returns nil when expected and actual are equal after
// normalization, and a *MismatchError otherwise.
func Compare(expected, actual string) error {
	expected, actual = Normalize(expected), Normalize(actual)
	if expected == actual {
		return nil
	}
	return &MismatchError{
		Expected: expected,
		Actual:   actual,
		Lines:    LineDiff(expected, actual),
	}
}

// ActualPath is where the actual output for the fixture at path is written
// on mismatch.
func ActualPath(path string) string {
	return path + ".actual"
}

// CheckFile compares actual to the contents of the fixture at path. On
// mismatch it writes actual next to the fixture and returns the
// *MismatchError; a stale .actual file from an earlier run is removed on
// success.
func CheckFile(path, actual string) error {
	want, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading fixture %s", path)
	}
	apath := ActualPath(path)
	cmpErr := Compare(string(want), actual)
	if cmpErr == nil {
		if err := os.Remove(apath); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", apath)
		}
		return nil
	}
	if err := os.WriteFile(apath, []byte(actual), 0o644); err != nil {
		return errors.CombineErrors(cmpErr, errors.Wrapf(err, "writing %s", apath))
	}
	return errors.WithHintf(cmpErr, "actual output written to %s", apath)
}

// UpdateFile overwrites the fixture at path with actual.
func UpdateFile(path, actual string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating fixture dir")
	}
	return errors.Wrapf(os.WriteFile(path, []byte(actual), 0o644), "writing fixture %s", path)
}

// Updating reports whether fixtures should be rewritten.
func Updating() bool {
	b, _ := strconv.ParseBool(os.Getenv(UpdateEnv))
	return b
}

// CheckFixture fails t when actual differs from the fixture at path.
func CheckFixture(t testing.TB, path, actual string) {
	t.Helper()
	if Updating() {
		if err := UpdateFile(path, actual); err != nil {
			t.Fatal(err)
		}
		return
	}
	if err := CheckFile(path, actual); err != nil {
		t.Errorf("%s: %v\n%s", path, err, strings.Join(errors.GetAllHints(err), "\n"))
	}
}
