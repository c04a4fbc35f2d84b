package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLoaderSummarizesCount(t *testing.T) {
	loader := newRecordLoader("queue records", nil)
	assert.Contains(t, loader.View(), "Loading queue records...")

	next, cmd := loader.Update(loadDoneMsg{count: 3})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	done := next.(recordLoader)
	assert.Contains(t, done.View(), "Loaded 3 queue records.")
}

func TestRecordLoaderHidesSummaryOnError(t *testing.T) {
	loader := newRecordLoader("queue records", nil)

	next, _ := loader.Update(loadDoneMsg{err: errors.New("boom")})
	done := next.(recordLoader)

	assert.Empty(t, done.View())
	assert.EqualError(t, done.err, "boom")
}

func TestRecordLoaderStopsTickingWhenDone(t *testing.T) {
	loader := newRecordLoader("queue records", nil)
	next, _ := loader.Update(loadDoneMsg{count: 1})

	_, cmd := next.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestRunRecordLoaderReturnsLoadError(t *testing.T) {
	var out bytes.Buffer

	err := runRecordLoader(context.Background(), &out, "queue records", func(context.Context) (int, error) {
		return 0, errors.New("read failed")
	})
	assert.EqualError(t, err, "read failed")
}
