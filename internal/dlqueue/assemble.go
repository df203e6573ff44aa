// Package dlqueue turns accepted candidates into indexed download tasks and
// persists them as the queue manifest consumed by the download stage.
package dlqueue

import (
	"fmt"
	"path/filepath"
	"strings"

	"subsearch/internal/search"
	"subsearch/internal/textutil"
)

// DefaultExtension is the archive suffix used when none is configured.
const DefaultExtension = "zip"

// Task is one pending subtitle download.
type Task struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}

// Label renders "provider 2/5" for progress output.
func (t Task) Label() string {
	return fmt.Sprintf("%s %d/%d", t.Provider, t.Index, t.Total)
}

// Assemble numbers accepted candidates from 1 and assigns each a target path
// "<tempDir>/<provider>_<index>.<ext>". The provider is reduced to a single
// path segment so every task lands directly under tempDir. The input slice is
// not modified.
func Assemble(provider string, accepted []search.Candidate, tempDir, ext string) []Task {
	if len(accepted) == 0 {
		return nil
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	segment := textutil.SanitizeToken(provider)
	total := len(accepted)
	tasks := make([]Task, 0, total)
	for i, cand := range accepted {
		index := i + 1
		tasks = append(tasks, Task{
			Provider: provider,
			Name:     cand.Name,
			Index:    index,
			Total:    total,
			Path:     filepath.Join(tempDir, fmt.Sprintf("%s_%d.%s", segment, index, ext)),
			URL:      cand.Locator,
		})
	}
	return tasks
}

// AssembleResults builds tasks for every provider with accepted candidates,
// numbering each provider's tasks independently.
func AssembleResults(results search.Results, tempDir, ext string) []Task {
	var tasks []Task
	for _, outcome := range results.Outcomes {
		tasks = append(tasks, Assemble(outcome.Provider, outcome.Accepted, tempDir, ext)...)
	}
	return tasks
}
