package utils

import (
	"strconv"
	"strings"
)

const sizeUnitStep = 1024

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case unit, keeping one
// decimal below ten units ("1.5kb") and none above ("12mb").
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeUnitStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeUnitStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	rendered := strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0")
	return rendered + sizeUnits[unitIndex]
}
