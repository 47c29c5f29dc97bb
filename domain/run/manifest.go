package run

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"sheetdiff/domain/core"
	"sheetdiff/domain/layout"
)

// Manifest records the configuration a run was made with, so two runs over
// the same folders can be told apart or matched.
type Manifest struct {
	RunID       core.RunID `json:"run_id"`
	Root        string     `json:"root"`
	RecalcMode  string     `json:"recalc_mode"`
	Layouts     []string   `json:"layouts"`
	CodeVersion string     `json:"code_version"`
	// Fingerprint hashes everything above except the run id.
	Fingerprint core.Hash      `json:"fingerprint"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewManifest creates a manifest for a run over root
func NewManifest(runID core.RunID, root, recalcMode string, layouts []layout.Layout, codeVersion string) Manifest {
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		names = append(names, layoutKey(l))
	}
	sort.Strings(names)

	return Manifest{
		RunID:       runID,
		Root:        root,
		RecalcMode:  recalcMode,
		Layouts:     names,
		CodeVersion: codeVersion,
		Fingerprint: computeFingerprint(root, recalcMode, names, codeVersion),
		CreatedAt:   core.Now(),
	}
}

func layoutKey(l layout.Layout) string {
	strategy := layout.StrategyPositional
	if l.Strategy != nil {
		strategy = l.Strategy.Name()
	}
	return fmt.Sprintf("%s:%s:%d:%d-%d", l.Sheet, strategy, l.StartRow, l.StartColumn, l.EndColumn)
}

// computeFingerprint hashes the run configuration deterministically
func computeFingerprint(root, recalcMode string, layouts []string, codeVersion string) core.Hash {
	data := fmt.Sprintf("root:%s|recalc:%s|layouts:%s|code:%s",
		root, recalcMode, strings.Join(layouts, ","), codeVersion)
	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}

// Validate checks if the manifest is complete
func (m Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.Root == "" {
		return core.NewValidationError("manifest", "root cannot be empty")
	}
	if m.Fingerprint.IsEmpty() {
		return core.NewValidationError("manifest", "fingerprint cannot be empty")
	}
	return nil
}
