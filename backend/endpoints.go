// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
)

// Operation names one logical backend call.
type Operation string

const (
	OperationHealth     Operation = "health"
	OperationSystemInfo Operation = "system-info"
	OperationGreet      Operation = "greet"
	OperationCompute    Operation = "compute"
	OperationListFiles  Operation = "list-files"
)

// Endpoint describes the wire contract of one operation.
type Endpoint struct {
	Operation Operation
	Method    string
	Path      string

	// RequiredFields must be present and non-null in a successful
	// response object. For list responses the check applies to every
	// element.
	RequiredFields []string

	// ResponseIsList is true when the success body is a JSON array.
	ResponseIsList bool
}

var endpointTable = map[Operation]Endpoint{
	OperationHealth: {
		Operation:      OperationHealth,
		Method:         http.MethodGet,
		Path:           backendapi.PathHealth,
		RequiredFields: []string{"status"},
	},
	OperationSystemInfo: {
		Operation:      OperationSystemInfo,
		Method:         http.MethodGet,
		Path:           backendapi.PathSystem,
		RequiredFields: []string{"os", "architecture", "cpuCount", "backendVersion"},
	},
	OperationGreet: {
		Operation:      OperationGreet,
		Method:         http.MethodGet,
		Path:           backendapi.PathGreet,
		RequiredFields: []string{"greeting", "timestamp"},
	},
	OperationCompute: {
		Operation:      OperationCompute,
		Method:         http.MethodPost,
		Path:           backendapi.PathCompute,
		RequiredFields: []string{"input", "result", "elapsedMs"},
	},
	OperationListFiles: {
		Operation:      OperationListFiles,
		Method:         http.MethodGet,
		Path:           backendapi.PathFiles,
		RequiredFields: []string{"name", "isDirectory", "size"},
		ResponseIsList: true,
	},
}

// Endpoints returns a copy of the endpoint table ordered by operation
// name.
func Endpoints() []Endpoint {
	result := make([]Endpoint, 0, len(endpointTable))
	for _, endpoint := range endpointTable {
		endpoint.RequiredFields = slices.Clone(endpoint.RequiredFields)
		result = append(result, endpoint)
	}
	slices.SortFunc(result, func(a, b Endpoint) int {
		return cmp.Compare(a.Operation, b.Operation)
	})
	return result
}

// LookupEndpoint returns the descriptor for operation.
func LookupEndpoint(operation Operation) (Endpoint, bool) {
	endpoint, ok := endpointTable[operation]
	if ok {
		endpoint.RequiredFields = slices.Clone(endpoint.RequiredFields)
	}
	return endpoint, ok
}
