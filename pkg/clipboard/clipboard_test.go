package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	mem := NewMemory()

	text, err := mem.ReadText()
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, mem.WriteHTML("<b>x</b>", "x"))
	text, _ = mem.ReadText()
	assert.Equal(t, "x", text)
	assert.Equal(t, "<b>x</b>", mem.HTML())

	require.NoError(t, mem.WriteText("y"))
	text, _ = mem.ReadText()
	assert.Equal(t, "y", text)
	assert.Empty(t, mem.HTML(), "plain write clears html flavour")
}

// newFakeSystem returns a System whose text flavour lives in a string.
func newFakeSystem() (*System, *string) {
	var stored string
	return &System{
		readAll:  func() (string, error) { return stored, nil },
		writeAll: func(text string) error { stored = text; return nil },
	}, &stored
}

func TestSystem_WriteHTMLKeepsPlainText(t *testing.T) {
	s, _ := newFakeSystem()

	err := s.WriteHTML("http://a.test<br>\nhttp://b.test<br>\n", "http://a.test\nhttp://b.test\n")
	assert.ErrorIs(t, err, ErrHTMLUnsupported)

	text, err := s.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "http://a.test\nhttp://b.test\n", text)
}

func TestSystem_WriteText(t *testing.T) {
	s, stored := newFakeSystem()

	require.NoError(t, s.WriteText("http://a.test\n"))
	assert.Equal(t, "http://a.test\n", *stored)
}

func TestSystem_Errors(t *testing.T) {
	s := &System{
		readAll:  func() (string, error) { return "", errors.New("no display") },
		writeAll: func(string) error { return errors.New("no display") },
	}

	_, err := s.ReadText()
	assert.ErrorContains(t, err, "failed to read clipboard")

	err = s.WriteHTML("<b>x</b>", "x")
	assert.ErrorContains(t, err, "failed to write clipboard")
	assert.NotErrorIs(t, err, ErrHTMLUnsupported)
}
