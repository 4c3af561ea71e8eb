package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardEmpty(t *testing.T) {
	b := NewBoard()
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			assert.Equal(t, Empty, b[row][col])
		}
	}
	assert.False(t, b.Full())
}

func TestDropFillsBottomUp(t *testing.T) {
	b := NewBoard()
	// Each drop lands exactly one row above the previous one.
	for want := Rows - 1; want >= 0; want-- {
		row, err := b.LowestEmptyRow(3)
		require.NoError(t, err)
		assert.Equal(t, want, row)

		got, err := b.Drop(3, PlayerOne)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := b.Drop(3, PlayerOne)
	assert.ErrorIs(t, err, ErrColumnFull)
}

func TestDropInvalidColumn(t *testing.T) {
	b := NewBoard()
	for _, col := range []int{-1, Cols, 42} {
		_, err := b.Drop(col, PlayerOne)
		assert.ErrorIs(t, err, ErrInvalidColumn)
	}
}

func TestDropInvalidPlayer(t *testing.T) {
	b := NewBoard()
	_, err := b.Drop(0, Empty)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
	_, err = b.Drop(0, Cell(3))
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestFullColumnRejectionLeavesBoardUnchanged(t *testing.T) {
	b := NewBoard()
	for i := 0; i < Rows; i++ {
		_, err := b.Drop(0, PlayerOne)
		require.NoError(t, err)
	}
	before := b
	_, err := b.Drop(0, PlayerTwo)
	assert.ErrorIs(t, err, ErrColumnFull)
	assert.Equal(t, before, b)
}

func TestValidColumns(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, b.ValidColumns())

	for i := 0; i < Rows; i++ {
		_, err := b.Drop(2, PlayerOne)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{0, 1, 3, 4, 5, 6}, b.ValidColumns())
}

// The board's JSON form is the wire format: a 6x7 array of 0/1/2.
// Round-tripping must keep the empty/occupied distinction and must not
// transpose rows and columns.
func TestBoardJSONRoundTrip(t *testing.T) {
	b := NewBoard()
	_, err := b.Drop(0, PlayerOne)
	require.NoError(t, err)
	_, err = b.Drop(6, PlayerTwo)
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var back Board
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
	assert.Equal(t, PlayerOne, back[Rows-1][0])
	assert.Equal(t, PlayerTwo, back[Rows-1][6])
}
