package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/honeybbq/corosyncconf/pkg/quorumconf"
)

// VersionedConfig 记录一份配置文本的版本元数据。
type VersionedConfig struct {
	VersionID string
	Checksum  string
	Timestamp time.Time
	Text      string
}

// Snapshot captures a rendered config text as a new version. Two
// snapshots of identical text share a checksum but never a version id.
func Snapshot(text string) *VersionedConfig {
	sum := sha256.Sum256([]byte(text))
	return &VersionedConfig{
		VersionID: uuid.NewString(),
		Checksum:  hex.EncodeToString(sum[:]),
		Timestamp: time.Now(),
		Text:      text,
	}
}

// ChangeSet 描述两个版本之间的一次差异。
type ChangeSet struct {
	Base   *VersionedConfig
	Target *VersionedConfig
	Diff   *DiffResult
}

// DiffResult lists the quorum options that differ between two versions.
type DiffResult struct {
	Added   map[string]string
	Removed map[string]string
	Changed map[string][2]string
}

// Empty reports whether the diff carries no differences.
func (d *DiffResult) Empty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0)
}

// Compare parses both versions and diffs their quorum options. Either
// text failing to parse fails the comparison with that parse error.
func Compare(base, target *VersionedConfig) (*ChangeSet, error) {
	baseFacade, err := quorumconf.FromText(base.Text)
	if err != nil {
		return nil, err
	}
	targetFacade, err := quorumconf.FromText(target.Text)
	if err != nil {
		return nil, err
	}

	baseOptions := baseFacade.GetQuorumOptions()
	targetOptions := targetFacade.GetQuorumOptions()
	diff := &DiffResult{
		Added:   map[string]string{},
		Removed: map[string]string{},
		Changed: map[string][2]string{},
	}
	for name, value := range targetOptions {
		old, existed := baseOptions[name]
		switch {
		case !existed:
			diff.Added[name] = value
		case old != value:
			diff.Changed[name] = [2]string{old, value}
		}
	}
	for name, value := range baseOptions {
		if _, still := targetOptions[name]; !still {
			diff.Removed[name] = value
		}
	}

	return &ChangeSet{Base: base, Target: target, Diff: diff}, nil
}
