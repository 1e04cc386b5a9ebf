// Package career holds the client-side rules of the career screens: project
// suggestions embedded in chat replies, join-code and email validation, and
// the growth-stage progress table.
package career

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"careerdeck/internal/types"
)

// Defaults applied to generated projects that omit a field.
const (
	DefaultDifficulty = "Medium"
	DefaultIcon       = "code"
	DefaultColor      = "from-blue-500 to-cyan-600"

	// LabUpdatedNote is appended to a reply whose project block was applied.
	LabUpdatedNote = "**Project Lab updated!** (Refreshed specific levels)"

	// ChatFallback is shown in place of a reply when the chat request fails.
	ChatFallback = "Sorry, I'm having trouble connecting to the server. Please ensure you've uploaded a resume first."
)

var fencedBlock = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Level is a normalised difficulty bucket.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

var levelWords = map[Level][]string{
	LevelEasy:   {"easy", "beginner"},
	LevelMedium: {"medium", "intermediate"},
	LevelHard:   {"hard", "tough", "advanced"},
}

// Levels returns every bucket a free-text difficulty belongs to. A label
// such as "Easy-Intermediate" matches two buckets.
func Levels(difficulty string) []Level {
	d := strings.ToLower(difficulty)
	var out []Level
	for _, lvl := range []Level{LevelEasy, LevelMedium, LevelHard} {
		for _, w := range levelWords[lvl] {
			if strings.Contains(d, w) {
				out = append(out, lvl)
				break
			}
		}
	}
	return out
}

// Reply is a chat reply after project extraction.
type Reply struct {
	Text     string                   // text to display
	Projects []types.GeneratedProject // normalised projects, nil if none
}

// ParseReply looks for a fenced JSON block carrying a "projects" array.
// When found, the projects are normalised and the block is replaced in the
// displayed text by LabUpdatedNote. Malformed blocks leave the reply as is.
func ParseReply(text string, now time.Time) Reply {
	loc := fencedBlock.FindStringSubmatchIndex(text)
	if loc == nil {
		return Reply{Text: text}
	}

	var payload struct {
		Projects []types.GeneratedProject `json:"projects"`
	}
	if err := json.Unmarshal([]byte(text[loc[2]:loc[3]]), &payload); err != nil || payload.Projects == nil {
		return Reply{Text: text}
	}

	display := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	if display != "" {
		display += "\n\n"
	}
	return Reply{
		Text:     display + LabUpdatedNote,
		Projects: Normalize(payload.Projects, now),
	}
}

// Normalize fills missing ids, difficulty, icon and color.
func Normalize(projects []types.GeneratedProject, now time.Time) []types.GeneratedProject {
	out := make([]types.GeneratedProject, len(projects))
	for i, p := range projects {
		if p.ID == "" {
			p.ID = fmt.Sprintf("gen-%d-%d", now.UnixMilli(), i)
		}
		if p.Difficulty == "" {
			p.Difficulty = DefaultDifficulty
		}
		if p.Icon == "" {
			p.Icon = DefaultIcon
		}
		if p.Color == "" {
			p.Color = DefaultColor
		}
		out[i] = p
	}
	return out
}

// MergeByDifficulty replaces the existing projects of every difficulty level
// present in incoming, keeping the rest, and appends incoming.
func MergeByDifficulty(existing, incoming []types.GeneratedProject) []types.GeneratedProject {
	updated := make(map[Level]bool)
	for _, p := range incoming {
		for _, lvl := range Levels(p.Difficulty) {
			updated[lvl] = true
		}
	}

	merged := make([]types.GeneratedProject, 0, len(existing)+len(incoming))
	for _, p := range existing {
		targeted := false
		for _, lvl := range Levels(p.Difficulty) {
			if updated[lvl] {
				targeted = true
				break
			}
		}
		if !targeted {
			merged = append(merged, p)
		}
	}
	return append(merged, incoming...)
}
