package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wallplan/pkg/dataplan"
	wpio "github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/pipeline"
	"github.com/matzehuels/wallplan/pkg/powerplan"
	"github.com/matzehuels/wallplan/pkg/wall"
)

func viewEntry() wpio.WallEntry {
	return wpio.WallEntry{
		Wall: wall.Wall{ID: "main", WidthUnits: 3, HeightUnits: 2, UnitSizeMM: 500},
		Cells: []wall.WallCell{
			{ID: "m", Label: "C001", UnitX: 0, UnitY: 0, UnitsWide: 3, UnitsHigh: 1, Status: wall.StatusVoid, Notes: "truss"},
			{ID: "a", Label: "C002", VariantID: wall.Some("p3"), UnitX: 0, UnitY: 0, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive},
			{ID: "b", Label: "C003", VariantID: wall.Some("p3"), UnitX: 0, UnitY: 1, UnitsWide: 1, UnitsHigh: 1, Status: wall.StatusActive},
		},
	}
}

func viewPlan() *pipeline.WallPlan {
	return &pipeline.WallPlan{
		WallID: "main",
		Data: dataplan.Result{Runs: []dataplan.Run{
			{Index: 0, PortLabel: "Port 1", CabinetIDs: []string{"a"}},
			{Index: 1, PortLabel: "Port 2", CabinetIDs: []string{"b"}, OverLimit: true},
		}},
		Power: powerplan.Result{Circuits: []powerplan.Circuit{
			{Number: 1, CabinetIDs: []string{"a", "b"}},
		}},
	}
}

func press(m WallViewModel, keys ...string) WallViewModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(WallViewModel)
	}
	return m
}

func TestWallViewCursorStaysOnGrid(t *testing.T) {
	m := NewWallViewModel(viewEntry(), viewPlan(), nil)

	m = press(m, "up", "left")
	assert.Equal(t, 0, m.CursorX)
	assert.Equal(t, 0, m.CursorY)

	m = press(m, "right", "right", "right", "right", "down", "down", "down")
	assert.Equal(t, 2, m.CursorX)
	assert.Equal(t, 1, m.CursorY)

	m = press(m, "h", "k")
	assert.Equal(t, 1, m.CursorX)
	assert.Equal(t, 0, m.CursorY)
}

func TestWallViewCellUnderCursor(t *testing.T) {
	m := NewWallViewModel(viewEntry(), viewPlan(), nil)

	c, ok := m.CellUnderCursor()
	require.True(t, ok)
	assert.Equal(t, "a", c.ID, "cabinets win over the marker beneath them")

	m = press(m, "right")
	c, ok = m.CellUnderCursor()
	require.True(t, ok)
	assert.Equal(t, wall.StatusVoid, c.Status)

	m = press(m, "down")
	_, ok = m.CellUnderCursor()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "empty")
}

func TestWallViewOverlays(t *testing.T) {
	m := NewWallViewModel(viewEntry(), viewPlan(), nil)
	assert.Equal(t, OverlayLayout, m.Overlay)

	m = press(m, "tab")
	assert.Equal(t, OverlayRuns, m.Overlay)
	view := m.View()
	assert.Contains(t, view, "overlay: runs")
	assert.Contains(t, view, "run 1")
	assert.Contains(t, view, "Port 1")

	m = press(m, "3")
	assert.Equal(t, OverlayCircuits, m.Overlay)
	assert.Contains(t, m.View(), "circuit 1")

	m = press(m, "tab")
	assert.Equal(t, OverlayLayout, m.Overlay)
}

func TestWallViewQuit(t *testing.T) {
	m := NewWallViewModel(viewEntry(), nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWallViewShowsPlanError(t *testing.T) {
	m := NewWallViewModel(viewEntry(), nil, errors.New("OVERLAP: cells collide"))
	view := m.View()
	assert.Contains(t, view, "plan unavailable")
	assert.Contains(t, view, "cells collide")
	assert.Equal(t, 7, strings.Count(view, "\n"), "title, help, blank, two grid rows, blank, status, plan error")
}
