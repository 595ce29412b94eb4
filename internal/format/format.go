package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/christiandt/electrolux-ac-cli/internal/broadlink"
	"github.com/christiandt/electrolux-ac-cli/internal/electrolux"
)

// Format selects how command results are rendered.
type Format string

// Supported output formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
)

// Parse converts a user-supplied format name to a Format.
func Parse(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, Text:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Reply writes a device reply to w. JSON passes the device's bytes through
// untouched so the output stays pipeable; YAML re-encodes them; text prints
// them as-is. Empty replies print nothing.
func Reply(w io.Writer, f Format, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}

	if f == YAML {
		return replyYAML(w, raw)
	}

	_, err := fmt.Fprintln(w, string(raw))

	return err
}

// Status writes a status reply to w. The text format renders labeled
// human-readable lines; other formats defer to Reply.
func Status(w io.Writer, f Format, raw []byte) error {
	if f != Text {
		return Reply(w, f, raw)
	}

	status, err := electrolux.ParseStatus(raw)
	if err != nil {
		// Unexpected payload shape, show it raw.
		return Reply(w, f, raw)
	}

	label := color.New(color.FgCyan).SprintFunc()

	lines := []struct {
		name  string
		value string
	}{
		{"power", onOff(status.Power)},
		{"mode", status.Mode.String()},
		{"fan", status.FanSpeed.String()},
		{"swing", onOff(status.Swing)},
		{"display", onOff(status.Display)},
		{"self-clean", onOff(status.SelfClean)},
		{"sleep", onOff(status.Sleep)},
		{"target temperature", fmt.Sprintf("%g°C", status.Temperature)},
		{"room temperature", fmt.Sprintf("%g°C", status.AmbientTemperature)},
		{"timer", status.Timer},
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", label(line.name), line.value); err != nil {
			return err
		}
	}

	return nil
}

// Devices writes discovery results to w.
func Devices(w io.Writer, f Format, infos []*broadlink.DeviceInfo) error {
	views := make([]deviceView, 0, len(infos))
	for _, info := range infos {
		views = append(views, newDeviceView(info))
	}

	switch f {
	case YAML:
		data, err := yaml.Marshal(views)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		_, err = w.Write(data)

		return err
	case Text:
		if len(views) == 0 {
			_, err := fmt.Fprintln(w, "no devices found")

			return err
		}

		for _, v := range views {
			if _, err := fmt.Fprintf(w, "%s  %s  %s  %s\n", v.Addr, v.MAC, v.Devtype, v.Name); err != nil {
				return err
			}
		}

		return nil
	default:
		data, err := json.Marshal(views)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}
}

// deviceView is the serializable shape of one discovery result.
type deviceView struct {
	Addr    string `json:"addr"    yaml:"addr"`
	MAC     string `json:"mac"     yaml:"mac"`
	Devtype string `json:"devtype" yaml:"devtype"`
	Name    string `json:"name"    yaml:"name"`
	Locked  bool   `json:"locked"  yaml:"locked"`
}

func newDeviceView(info *broadlink.DeviceInfo) deviceView {
	var addr string
	if info.Addr != nil {
		addr = info.Addr.String()
	}

	return deviceView{
		Addr:    addr,
		MAC:     info.MAC.String(),
		Devtype: fmt.Sprintf("%#04x", info.Devtype),
		Name:    info.Name,
		Locked:  info.Locked,
	}
}

// replyYAML re-encodes a JSON reply as YAML. Non-JSON replies are emitted
// verbatim.
func replyYAML(w io.Writer, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, werr := fmt.Fprintln(w, string(raw))

		return werr
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	_, err = w.Write(data)

	return err
}

// onOff renders a device flag.
func onOff(flag int) string {
	if flag != 0 {
		return color.GreenString("on")
	}

	return color.RedString("off")
}
