package protocol

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"penguins/game"
)

type dataAttrs struct {
	Class *string `mapstructure:"class"`
	Color *string `mapstructure:"color"`
}

type joinedAttrs struct {
	RoomID *string `mapstructure:"roomId"`
}

type coordinateAttrs struct {
	X *string `mapstructure:"x"`
	Y *string `mapstructure:"y"`
}

type scoreAttrs struct {
	Cause  *string `mapstructure:"cause"`
	Reason string  `mapstructure:"reason"`
}

type winnerAttrs struct {
	Team        string `mapstructure:"team"`
	Color       string `mapstructure:"color"`
	DisplayName string `mapstructure:"displayName"`
}

// decodeAttrs copies the attributes of an element into out. All fields are
// strings; numbers are parsed by the caller.
func decodeAttrs(attrs map[string]string, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(attrs)
}

// DecodeCoordinate reads the doubled x and y attributes of from/to elements.
func DecodeCoordinate(element string, attrs map[string]string) (game.Coordinate, error) {
	var a coordinateAttrs
	if err := decodeAttrs(attrs, &a); err != nil {
		return game.Coordinate{}, violation(element, "coordinate could not be parsed", err)
	}
	if a.X == nil || a.Y == nil {
		return game.Coordinate{}, violation(element, "coordinate is missing", nil)
	}
	x, err := parseDecimal(*a.X)
	if err != nil {
		return game.Coordinate{}, violation(element, "coordinate could not be parsed", err)
	}
	y, err := parseDecimal(*a.Y)
	if err != nil {
		return game.Coordinate{}, violation(element, "coordinate could not be parsed", err)
	}
	return game.FromDoubled(x, y), nil
}

// parseDecimal accepts only the canonical base 10 form of an integer, so
// "", "010", "+1" and "0x2" are rejected.
func parseDecimal(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if strconv.Itoa(n) != s {
		return 0, fmt.Errorf("%q is not a decimal integer", s)
	}
	return n, nil
}
