// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import "errors"

// Capability names one host function the UI may invoke.
type Capability string

const (
	CapabilityAppVersion     Capability = "getAppVersion"
	CapabilityPlatform       Capability = "getPlatform"
	CapabilityBackendAddress Capability = "getBackendAddress"
)

// ErrCapabilityDenied is returned for any name outside Capabilities().
var ErrCapabilityDenied = errors.New("capability denied")

// Capabilities returns the closed capability set.
func Capabilities() []Capability {
	return []Capability{
		CapabilityAppVersion,
		CapabilityPlatform,
		CapabilityBackendAddress,
	}
}

// Host supplies the state behind each capability. Implementations must
// be safe for concurrent use; the gateway calls them on every request.
type Host interface {
	AppVersion() string
	Platform() string
	BackendAddress() string
}
