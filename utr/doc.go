// Package utr implements the host side of the binary request/response
// protocol spoken by UTR-series RFID readers, over TCP or a serial line.
//
// # Protocol Overview
//
// Every frame on the wire has the shape
//
//	[STX][ADDR][CMD][LEN][payload(LEN bytes)][ETX][SUM][CR]
//
// where SUM is the additive checksum (mod 256) of all bytes from STX
// through ETX inclusive. The reader answers a command with zero or more
// data frames followed by exactly one control frame: ACK (0x30) on
// success or NACK (0x31) carrying a device error code. An inventory
// command produces one data frame per tag read, then a summary ACK
// declaring how many tags the reader counted.
//
// # Layers
//
// The package is built in layers, leaves first:
//
//   - Checksum and ExtractFrame: pure functions over byte slices.
//   - Synchronizer: the receive state machine. It consumes arbitrarily
//     fragmented input, resynchronizes on corruption by sliding one byte
//     at a time, and terminates on a control frame.
//   - DecodeInventory: the authoritative decoder for inventory response
//     cycles, producing tag records, RSSI readings, and the expected
//     count cross-check.
//   - Session: drives one command/response cycle at a time against a
//     Transport (TCP or serial), bounded by a response timeout.
//
// # Concurrency
//
// The protocol is strictly request-then-response with no pipelining.
// A Session supports at most one in-flight Communicate call; concurrent
// calls on the same transport must be serialized by the caller.
package utr
