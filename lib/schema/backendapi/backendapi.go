// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backendapi

import "time"

// Endpoint paths.
const (
	PathHealth  = "/health"
	PathSystem  = "/system"
	PathGreet   = "/greet"
	PathCompute = "/compute"
	PathFiles   = "/files"
)

// GreetNameParameter is the query parameter carrying the name to greet.
const GreetNameParameter = "name"

// DefaultGreetName is greeted when the name parameter is absent or
// blank.
const DefaultGreetName = "World"

// Compute accepts inputs in the closed range [MinComputeInput,
// MaxComputeInput]. The upper bound keeps the naive Fibonacci under a
// few seconds.
const (
	MinComputeInput = 0
	MaxComputeInput = 45
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemInfo is the body of GET /system.
type SystemInfo struct {
	OS             string `json:"os"`
	Architecture   string `json:"architecture"`
	CPUCount       int    `json:"cpuCount"`
	BackendVersion string `json:"backendVersion"`
}

// Greeting is the body of GET /greet.
type Greeting struct {
	Greeting  string    `json:"greeting"`
	Timestamp time.Time `json:"timestamp"`
}

// ComputeRequest is the body of POST /compute. Number is a pointer so
// that an absent field is distinguishable from zero.
type ComputeRequest struct {
	Number *int `json:"number"`
}

// ComputeResult is the response body of POST /compute.
type ComputeResult struct {
	Input     int   `json:"input"`
	Result    int64 `json:"result"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// FileEntry is one element of the GET /files array.
type FileEntry struct {
	Name        string     `json:"name"`
	IsDirectory bool       `json:"isDirectory"`
	Size        int64      `json:"size"`
	ModTime     *time.Time `json:"modTime,omitempty"`
}
