// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway is the only channel from the UI process into the
// host.
//
// The UI can invoke exactly three capabilities, each a read of current
// host state:
//
//   - getAppVersion: the application version from the manifest
//   - getPlatform: the host operating system identifier (runtime.GOOS)
//   - getBackendAddress: the base URL of the supervised backend
//
// The set is closed. [Gateway] dispatches through a table fixed at
// construction, and any other name fails with [ErrCapabilityDenied].
// No capability spawns processes or touches the filesystem. The UI
// talks to the backend only by first asking for its address and then
// making an ordinary HTTP call.
//
// [Server] exposes a Gateway on a Unix socket with a CBOR protocol, one
// request per connection:
//
//	request:  {capability: "getPlatform"}
//	response: {ok: true, value: "linux"}
//	          {ok: false, denied: true, error: "..."}
//
// The socket file is created with mode 0600. [Client] is the UI side:
// it has one method per capability and no way to name anything else.
// The host passes the socket path to the UI in [SocketEnvironmentVariable].
//
// Every call re-reads host state. There is no caching and no retry.
package gateway
