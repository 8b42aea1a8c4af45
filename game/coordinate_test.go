package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubledRoundTrip(t *testing.T) {
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			c := Coordinate{X: x, Y: y}
			d := c.Doubled()
			require.Equal(t, c, FromDoubled(d.X, d.Y), "round trip of %s", c)
		}
	}
}

func TestDoubled(t *testing.T) {
	require.Equal(t, Coordinate{X: 0, Y: 0}, Coordinate{X: 0, Y: 0}.Doubled())
	require.Equal(t, Coordinate{X: 7, Y: 1}, Coordinate{X: 3, Y: 1}.Doubled())
	require.Equal(t, Coordinate{X: 14, Y: 6}, Coordinate{X: 7, Y: 6}.Doubled())
	require.Equal(t, Coordinate{X: 3, Y: 1}, FromDoubled(7, 1))
}

func TestStep(t *testing.T) {
	origin := Coordinate{X: 3, Y: 3}

	t.Run("neighbours of an odd row", func(t *testing.T) {
		require.Equal(t, Coordinate{X: 4, Y: 2}, origin.Step(UpRight, 1))
		require.Equal(t, Coordinate{X: 4, Y: 3}, origin.Step(Right, 1))
		require.Equal(t, Coordinate{X: 4, Y: 4}, origin.Step(DownRight, 1))
		require.Equal(t, Coordinate{X: 3, Y: 4}, origin.Step(DownLeft, 1))
		require.Equal(t, Coordinate{X: 2, Y: 3}, origin.Step(Left, 1))
		require.Equal(t, Coordinate{X: 3, Y: 2}, origin.Step(UpLeft, 1))
	})

	t.Run("neighbours of an even row", func(t *testing.T) {
		even := Coordinate{X: 3, Y: 2}
		require.Equal(t, Coordinate{X: 3, Y: 1}, even.Step(UpRight, 1))
		require.Equal(t, Coordinate{X: 3, Y: 3}, even.Step(DownRight, 1))
		require.Equal(t, Coordinate{X: 2, Y: 3}, even.Step(DownLeft, 1))
		require.Equal(t, Coordinate{X: 2, Y: 1}, even.Step(UpLeft, 1))
	})

	t.Run("distance scales the delta", func(t *testing.T) {
		require.Equal(t, Coordinate{X: 4, Y: 1}, origin.Step(UpRight, 2))
		require.Equal(t, Coordinate{X: 0, Y: 3}, origin.Step(Left, 3))
	})

	t.Run("opposite directions cancel", func(t *testing.T) {
		pairs := [][2]Direction{{UpRight, DownLeft}, {Right, Left}, {DownRight, UpLeft}}
		for _, pair := range pairs {
			require.Equal(t, origin, origin.Step(pair[0], 2).Step(pair[1], 2))
		}
	})

	t.Run("no bounds checking", func(t *testing.T) {
		c := Coordinate{X: 0, Y: 0}.Step(DownLeft, 1)
		require.Equal(t, Coordinate{X: -1, Y: 1}, c)
		require.False(t, c.InBounds())
	})
}
