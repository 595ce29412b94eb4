// Package format renders command results for the terminal.
//
// The default JSON format writes the device's reply bytes through untouched
// so output can be piped into other tools; YAML re-encodes the same data;
// text produces labeled, colored lines for humans.
package format
