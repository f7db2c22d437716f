package page_test

import (
	"testing"

	"github.com/golang-cafe/hireboard/internal/page"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, events ...page.Event) *page.Machine {
	t.Helper()
	m := page.New()
	for _, e := range events {
		require.NoError(t, m.Fire(e, ""), e.String())
	}
	return m
}

func TestMachine(t *testing.T) {
	tests := []struct {
		name   string
		events []page.Event
		want   page.State
	}{
		{"initial", nil, page.Loading},
		{"loaded", []page.Event{page.Loaded}, page.View},
		{"unregistered", []page.Event{page.LoadedUnregistered}, page.Unregistered},
		{"load failed", []page.Event{page.LoadFailed}, page.Failed},
		{"edit", []page.Event{page.Loaded, page.StartEdit}, page.Edit},
		{"edit invalid stays", []page.Event{page.Loaded, page.StartEdit, page.SubmitInvalid}, page.Edit},
		{"edit saved", []page.Event{page.Loaded, page.StartEdit, page.SubmitSucceeded}, page.View},
		{"create saved", []page.Event{page.LoadedUnregistered, page.SubmitSucceeded}, page.View},
		{"create invalid", []page.Event{page.LoadedUnregistered, page.SubmitInvalid}, page.Edit},
		{"save failed", []page.Event{page.Loaded, page.StartEdit, page.SubmitFailed}, page.Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, run(t, tt.events...).Is(tt.want))
		})
	}
}

func TestInvalidTransitions(t *testing.T) {
	m := page.New()
	err := m.Fire(page.SubmitSucceeded, "")
	assert.True(t, errors.Is(err, page.ErrTransition))
	assert.True(t, m.IsLoading())

	m = run(t, page.LoadFailed)
	assert.Error(t, m.Fire(page.Loaded, ""))
	assert.True(t, m.IsFailed())
}

func TestNotice(t *testing.T) {
	m := page.New()
	require.NoError(t, m.Fire(page.LoadFailed, "backend down"))
	assert.Equal(t, "backend down", m.Notice)
	assert.Equal(t, "failed", m.State())
}
