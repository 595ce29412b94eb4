package electrolux

import (
	"encoding/json"
	"fmt"
)

// Status is the device state as reported by the status command. Field names
// mirror the device's own JSON keys. Temperatures are floats because some
// firmware revisions report half-degree ambient readings.
type Status struct {
	// Power is 1 when the unit is running.
	Power int `json:"ac_pwr"`
	// Mode is the active operating mode.
	Mode Mode `json:"ac_mode"`
	// FanSpeed is the active fan level.
	FanSpeed FanSpeed `json:"ac_mark"`
	// Swing is 1 when vertical swing is enabled.
	Swing int `json:"ac_vdir"`
	// Display is 1 when the front panel LED display is lit.
	Display int `json:"scrdisp"`
	// Sleep is 1 when sleep mode is active.
	Sleep int `json:"ac_slp"`
	// SelfClean is 1 when the self-clean cycle is running.
	SelfClean int `json:"mldprf"`
	// Temperature is the target temperature in degrees Celsius.
	Temperature float64 `json:"temp"`
	// AmbientTemperature is the room temperature the unit measures.
	AmbientTemperature float64 `json:"envtemp"`
	// Timer is the raw timer program, e.g. "0230|01".
	Timer string `json:"timer"`
}

// ParseStatus decodes a status reply. Keys this build does not know are
// ignored so payloads from newer firmware still parse.
func ParseStatus(raw []byte) (*Status, error) {
	var s Status
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	return &s, nil
}
