package tui

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeWriter struct{ io.Writer }

func (writer fakeWriter) Fd() uintptr { return 1 }

func TestIsTerminalWriterWithoutFD(t *testing.T) {
	assert.False(t, IsTerminalWriter(&strings.Builder{}))
}

func TestIsTerminalWriterUsesDetection(t *testing.T) {
	restore := mockTerminalDetection(t, true)
	defer restore()
	assert.True(t, IsTerminalWriter(fakeWriter{}))

	isTerminalFunc = func(int) bool { return false }
	assert.False(t, IsTerminalWriter(fakeWriter{}))
}

func TestSetIsTerminalFuncForTestingRestores(t *testing.T) {
	previous := isTerminalFunc
	defer func() { isTerminalFunc = previous }()

	isTerminalFunc = func(_ int) bool { return false }

	restore := SetIsTerminalFuncForTesting(func(_ int) bool { return true })
	assert.True(t, isTerminalFunc(0))

	restore()
	assert.False(t, isTerminalFunc(0))
}

func TestWidth(t *testing.T) {
	restore := mockTerminalDetection(t, true)
	defer restore()
	previous := getSizeFunc
	defer func() { getSizeFunc = previous }()

	getSizeFunc = func(int) (int, int, error) { return 120, 40, nil }
	assert.Equal(t, 120, Width(fakeWriter{}))

	getSizeFunc = func(int) (int, int, error) { return 0, 0, errors.New("no size") }
	assert.Equal(t, 0, Width(fakeWriter{}))

	assert.Equal(t, 0, Width(&strings.Builder{}))
}

func TestWidthIsZeroWhenNotATerminal(t *testing.T) {
	restore := mockTerminalDetection(t, false)
	defer restore()

	assert.Equal(t, 0, Width(fakeWriter{}))
}

func mockTerminalDetection(t *testing.T, result bool) func() {
	t.Helper()
	original := isTerminalFunc
	isTerminalFunc = func(_ int) bool { return result }
	return func() { isTerminalFunc = original }
}
