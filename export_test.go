package logplus

// Test helpers shared with the external logplus_test package.
var (
	CaptureDefault = captureDefault
	ReadLines      = readLines
	LeadingSpaces  = leadingSpaces
)

type LogLine = logLine
