// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// deskbridge binaries.
//
// The variables are injected at build time with -ldflags, for example:
//
//	go build -ldflags "-X github.com/deskbridge/deskbridge/lib/version.Version=1.2.0 \
//	    -X github.com/deskbridge/deskbridge/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// [Short] is also the application version reported through the
// gateway when no application manifest is present.
package version
