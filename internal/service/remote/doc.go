// Package remote dispatches single air conditioner commands: each entry
// point resolves the device address, dials once, performs exactly one
// protocol exchange, renders the reply, and closes the session.
//
// The Dial and Scan hooks exist so tests can drive the dispatch logic
// against fakes without touching the network.
package remote
