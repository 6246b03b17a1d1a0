package status

import (
	"fmt"
)

// Formatter defines how campaign progress should be rendered
type Formatter interface {
	// FormatProgress formats a progress counter
	FormatProgress(current, total int) string

	// FormatSnapshot formats a full progress view
	FormatSnapshot(p Progress) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatSnapshot formats a campaign's progress on one line
func (f *DefaultFormatter) FormatSnapshot(p Progress) string {
	state := "running"
	if p.Exhausted {
		state = "done"
	}
	return fmt.Sprintf("%s [%s %s] %s • %d ok, %d failed, %d remaining",
		p.ID, p.Kind, state, f.FormatProgress(p.Processed, p.Total), p.Succeeded(), p.Failures, p.Remaining)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
