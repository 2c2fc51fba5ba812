package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoypad_UnselectedReadsHigh(t *testing.T) {
	j := New()
	j.SetSelect(0x30)
	j.Set(A, true)
	assert.Equal(t, byte(0xFF), j.Value(), "no group selected: lower nibble stays high")
}

func TestJoypad_DirectionGroup(t *testing.T) {
	j := New()
	j.SetSelect(0x20) // P14 low selects the D-pad
	j.Set(Right, true)
	j.Set(Up, true)
	assert.Equal(t, byte(0x0A), j.Value()&0x0F)
	assert.Equal(t, byte(0x20), j.Value()&0x30, "selector bits read back verbatim")
}

func TestJoypad_ButtonGroup(t *testing.T) {
	j := New()
	j.SetSelect(0x10) // P15 low selects the buttons
	j.Set(A, true)
	j.Set(Start, true)
	assert.Equal(t, byte(0x06), j.Value()&0x0F)

	// D-pad state must not leak into the button view
	j.Set(Left, true)
	assert.Equal(t, byte(0x06), j.Value()&0x0F)
}

func TestJoypad_PressEdgeRequestsInterrupt(t *testing.T) {
	j := New()
	j.SetSelect(0x10)

	assert.True(t, j.Set(A, true), "press in the selected group is a falling edge")
	assert.False(t, j.Set(A, true), "held button is not a new edge")
	assert.False(t, j.Set(A, false), "release is a rising edge, no interrupt")
}

func TestJoypad_PressInUnselectedGroupIsInvisible(t *testing.T) {
	j := New()
	j.SetSelect(0x10) // buttons selected
	assert.False(t, j.Set(Down, true), "D-pad press invisible while buttons selected")

	// selecting the D-pad now exposes the held press as an edge
	assert.True(t, j.SetSelect(0x20))
}
