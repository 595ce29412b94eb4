// Package config persists the air conditioner address between invocations
// and provides helpers to load and save it in JSON format.
//
// The settings file lives at ~/.electrolux_ac_config.json by default. Loading
// never fails on bad contents: anything unreadable is replaced with a fresh
// default so the tool keeps working out of the box.
package config
