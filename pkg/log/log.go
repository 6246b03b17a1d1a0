// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entry lines
	pathWidth   = 40 // Base width for the entry path
	typeWidth   = 11 // Width for entry type
	resultWidth = 8  // Width for the outcome
)

// 🎯 MutationRecord is one attempted mutation, as shown to the operator
type MutationRecord struct {
	Campaign string // Campaign id
	Path     string // Entry path
	Type     string // FILE, DIRECTORY or UNKNOWN
	Success  bool   // Whether the client reported success
	Err      error  // Why it failed, if known
}

// 📦 CampaignInfo describes a campaign being driven
type CampaignInfo struct {
	ID    string // Campaign id
	Kind  string // Mutation kind
	Owner string // Launching user
	Query string // Originating query
	Total int    // Entries in the working set
}

// Tally counts what the console has shown for one campaign
type Tally struct {
	Attempted int
	Failed    int
}

type campaignTally struct {
	info CampaignInfo
	Tally
}

// 🎯 Logger renders campaign progress for the operator. Several campaigns may
// share one Logger; lines are written whole.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	campaigns map[string]*campaignTally
}

// 🏭 New creates a console logger writing to console. Structured events go to
// the logger carried by ctx.
func New(ctx context.Context, console io.Writer) *Logger {
	return &Logger{
		zlog:      *zerolog.Ctx(ctx),
		console:   console,
		campaigns: make(map[string]*campaignTally),
	}
}

// 📝 formatMutation formats a mutation attempt for display
func (l *Logger) formatMutation(rec MutationRecord) string {
	symbol, symbolColor, result := '✓', color.FgGreen, "ok"
	if !rec.Success {
		symbol, symbolColor, result = '✗', color.FgRed, "failed"
	}

	var typeColor color.Attribute
	switch rec.Type {
	case "DIRECTORY":
		typeColor = color.FgBlue
	case "FILE":
		typeColor = color.FgCyan
	default:
		typeColor = color.FgYellow
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, rec.Path),
		color.New(typeColor).Sprint(fmt.Sprintf("%-*s", typeWidth, rec.Type)),
		fmt.Sprintf("%-*s", resultWidth, result))
	if rec.Err != nil {
		line += color.New(color.Faint).Sprint(rec.Err.Error())
	}
	return line
}

// 📝 LogMutation prints one mutation attempt and counts it against its
// campaign. The engine already emits the structured event for the attempt.
func (l *Logger) LogMutation(rec MutationRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.campaigns[rec.Campaign]; ok {
		t.Attempted++
		if !rec.Success {
			t.Failed++
		}
	}

	fmt.Fprintln(l.console, l.formatMutation(rec))
}

// 📝 StartCampaign prints the campaign header and starts its tally
func (l *Logger) StartCampaign(info CampaignInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.campaigns[info.ID] = &campaignTally{info: info}

	fmt.Fprintf(l.console, "[%s %s]\n",
		color.New(color.FgCyan).Sprint(info.Kind),
		color.New(color.Faint).Sprint(info.ID))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(info.Owner),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d entries", info.Total))

	l.zlog.Info().
		Str("campaign", info.ID).
		Str("kind", info.Kind).
		Str("owner", info.Owner).
		Str("query", info.Query).
		Int("total", info.Total).
		Msg("starting campaign")
}

// 📝 EndCampaign stops tallying a campaign and returns what was shown for it
func (l *Logger) EndCampaign(id string) Tally {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.campaigns[id]
	if !ok {
		return Tally{}
	}
	delete(l.campaigns, id)

	l.zlog.Info().
		Str("campaign", id).
		Int("attempted", t.Attempted).
		Int("failed", t.Failed).
		Msg("campaign complete")
	return t.Tally
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("fsmutate")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Err(err).Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
}
