// Package electrolux drives Electrolux-made air conditioners that expose the
// Broadlink OEM protocol (device type 0x4F9B).
//
// Commands and replies are small JSON documents wrapped in a vendor frame and
// carried over an authenticated broadlink session. The client exposes one
// method per remote function and hands back the device's JSON replies
// unmodified so callers can render or pipe them as they see fit.
package electrolux
