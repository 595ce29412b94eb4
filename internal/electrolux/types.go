package electrolux

import (
	"fmt"
	"strings"
)

// Temperature limits accepted by the device, in degrees Celsius.
const (
	MinTemperature = 0
	MaxTemperature = 40
)

// Timer limits accepted by the device.
const (
	maxTimerHours   = 23
	maxTimerMinutes = 59
)

// Mode is the air conditioner operating mode with its device wire value.
type Mode int

// Operating modes.
const (
	ModeCool  Mode = 0
	ModeHeat  Mode = 1
	ModeDry   Mode = 2
	ModeFan   Mode = 3
	ModeAuto  Mode = 4
	ModeHeat8 Mode = 6
)

// ParseMode converts a user-facing mode name to its wire value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "cool":
		return ModeCool, nil
	case "heat":
		return ModeHeat, nil
	case "dry":
		return ModeDry, nil
	case "fan":
		return ModeFan, nil
	case "heat_8":
		return ModeHeat8, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// String renders the mode as its user-facing name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeCool:
		return "cool"
	case ModeHeat:
		return "heat"
	case ModeDry:
		return "dry"
	case ModeFan:
		return "fan"
	case ModeHeat8:
		return "heat_8"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// FanSpeed is the fan level with its device wire value.
type FanSpeed int

// Fan levels.
const (
	FanAuto   FanSpeed = 0
	FanLow    FanSpeed = 1
	FanMedium FanSpeed = 2
	FanHigh   FanSpeed = 3
	FanTurbo  FanSpeed = 4
	FanQuiet  FanSpeed = 5
)

// ParseFanSpeed converts a user-facing fan level name to its wire value.
// "mid" is accepted as an alias for "medium".
func ParseFanSpeed(s string) (FanSpeed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return FanAuto, nil
	case "low":
		return FanLow, nil
	case "medium", "mid":
		return FanMedium, nil
	case "high":
		return FanHigh, nil
	case "turbo":
		return FanTurbo, nil
	case "quiet":
		return FanQuiet, nil
	default:
		return 0, fmt.Errorf("unknown fan speed %q", s)
	}
}

// String renders the fan level as its user-facing name.
func (f FanSpeed) String() string {
	switch f {
	case FanAuto:
		return "auto"
	case FanLow:
		return "low"
	case FanMedium:
		return "medium"
	case FanHigh:
		return "high"
	case FanTurbo:
		return "turbo"
	case FanQuiet:
		return "quiet"
	default:
		return fmt.Sprintf("fan(%d)", int(f))
	}
}

// clamp forces v into the [low, high] range.
func clamp(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}

// timerValue renders the timer program the device expects: "HHMM|0F" where
// F is 1 for a switch-on timer and 0 for a switch-off timer. Hours and
// minutes are clamped to a day's range.
func timerValue(on bool, hours, minutes int) string {
	hours = clamp(hours, 0, maxTimerHours)
	minutes = clamp(minutes, 0, maxTimerMinutes)

	flag := 0
	if on {
		flag = 1
	}

	return fmt.Sprintf("%02d%02d|0%d", hours, minutes, flag)
}

// asFlag converts a boolean to the 0/1 the device expects.
func asFlag(on bool) int {
	if on {
		return 1
	}

	return 0
}
