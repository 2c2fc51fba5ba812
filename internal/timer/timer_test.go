package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimer_DIVRate(t *testing.T) {
	tm := New()

	tm.Tick(255)
	assert.Equal(t, byte(0), tm.Read(0xFF04))
	tm.Tick(1)
	assert.Equal(t, byte(1), tm.Read(0xFF04))
	tm.Tick(256 * 4)
	assert.Equal(t, byte(5), tm.Read(0xFF04))
}

func TestTimer_DIVWriteResets(t *testing.T) {
	tm := New()
	tm.Tick(1000)
	tm.Write(0xFF04, 0x5A)
	assert.Equal(t, byte(0), tm.Read(0xFF04))
}

func TestTimer_DisabledDoesNotCount(t *testing.T) {
	tm := New()
	tm.Write(0xFF07, 0x01) // speed set but enable clear
	tm.Tick(10000)
	assert.Equal(t, byte(0), tm.Read(0xFF05))
}

func TestTimer_OverflowReloadsAndInterrupts(t *testing.T) {
	tm := New()
	tm.Write(0xFF07, 0x05) // enabled, 16 clocks per tick
	tm.Write(0xFF05, 0xFF)
	tm.Write(0xFF06, 0x42)

	assert.True(t, tm.Tick(16), "overflow must raise the Timer interrupt")
	assert.Equal(t, byte(0x42), tm.Read(0xFF05), "TIMA reloads from TMA")
}

func TestTimer_Rates(t *testing.T) {
	cases := []struct {
		tac    byte
		clocks int
	}{
		{0x04, 1024},
		{0x05, 16},
		{0x06, 64},
		{0x07, 256},
	}
	for _, tc := range cases {
		tm := New()
		tm.Write(0xFF07, tc.tac)

		tm.Tick(tc.clocks - 1)
		assert.Equal(t, byte(0), tm.Read(0xFF05), "TAC=%02x too fast", tc.tac)
		tm.Tick(1)
		assert.Equal(t, byte(1), tm.Read(0xFF05), "TAC=%02x too slow", tc.tac)
	}
}

func TestTimer_AccumulatesAcrossTicks(t *testing.T) {
	tm := New()
	tm.Write(0xFF07, 0x05) // 16 clocks per tick

	for i := 0; i < 8; i++ {
		tm.Tick(4)
	}
	assert.Equal(t, byte(2), tm.Read(0xFF05))
}
