// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the deskbridge host configuration and the
// application manifest.
//
// The host configuration is a YAML file named by the --config flag or
// the DESKBRIDGE_CONFIG environment variable. Unlike most services the
// desktop host must start with no file at all, so [Default] returns a
// complete configuration and a file only overrides what it sets. An
// environment section (development or production) is applied on top of
// the base values when the environment matches.
//
// The application manifest is a small JSON-with-comments document
// (app.jsonc) carrying the application name and version. It is the
// source of the version string the UI reads through the gateway.
package config
