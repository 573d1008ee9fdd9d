// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"math"
	"strconv"
)

// PlatformName returns a display name for an operating system
// identifier. Unknown identifiers are returned unchanged.
func PlatformName(platform string) string {
	switch platform {
	case "windows", "win32":
		return "Windows"
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	}
	return platform
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders a size in 1024-based units rounded to two
// decimals with trailing zeros dropped: 0 Bytes, 512 Bytes, 1.5 KB,
// 2 MB. Sizes beyond the largest unit stay in GB.
func FormatBytes(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}
	unit := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	unit = min(unit, len(byteUnits)-1)
	value := float64(size) / math.Pow(1024, float64(unit))
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}
