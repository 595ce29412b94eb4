// Package broadlink speaks the classic Broadlink LAN protocol over UDP:
// device discovery, session authentication, and encrypted command exchange.
//
// Devices listen on UDP port 80 and ship with a well-known initial AES key.
// An authentication handshake swaps in a per-session key and device id, after
// which arbitrary vendor command payloads can be exchanged. Datagrams are
// retransmitted within the exchange timeout because the transport itself
// offers no delivery guarantee.
package broadlink
