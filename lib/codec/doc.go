// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration for deskbridge's internal
// protocols.
//
// JSON is reserved for the backend's HTTP contract, which the backend
// service and any UI must agree on. CBOR is used between the host and
// the UI process over the gateway socket, where both ends are built
// from this module. Encoding is Core Deterministic (RFC 8949 §4.2).
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
package codec
