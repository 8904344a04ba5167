package utils_test

import (
	"testing"

	"github.com/temirov/digest/internal/utils"
)

func TestFormatFileSize(testingInstance *testing.T) {
	testCases := []struct {
		testName  string
		byteCount int64
		expected  string
	}{
		{testName: "negative", byteCount: -1, expected: "0b"},
		{testName: "zero", byteCount: 0, expected: "0b"},
		{testName: "bytes", byteCount: 512, expected: "512b"},
		{testName: "just below a kilobyte", byteCount: 1023, expected: "1023b"},
		{testName: "one kilobyte", byteCount: 1024, expected: "1kb"},
		{testName: "fractional kilobyte", byteCount: 1536, expected: "1.5kb"},
		{testName: "whole kilobytes above ten", byteCount: 70 * 1024, expected: "70kb"},
		{testName: "ten megabytes", byteCount: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(testingInstance *testing.T) {
			result := utils.FormatFileSize(testCase.byteCount)
			if result != testCase.expected {
				testingInstance.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
