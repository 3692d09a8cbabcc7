package pilot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"
	"github.com/hyperk/hkpilot/pkgs/buildsys"
)

// Install folder layout:
//
//	<InstallDir>/
//	  .hkpilot.json   # install record
//	  include/
//	  lib/
//	  ...
const recordFile = ".hkpilot.json"

// Record describes a successful installation.
type Record struct {
	Name        string            `json:"name"`
	Source      string            `json:"source"`
	BuildDir    string            `json:"build_dir"`
	Options     map[string]string `json:"options,omitempty"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	Jobs        int               `json:"jobs"`
	InstallTime time.Time         `json:"install_time"`
}

func newRecord(t *buildsys.Target, now time.Time) *Record {
	return &Record{
		Name:        t.Name,
		Source:      t.Path,
		BuildDir:    t.BuildDir,
		Options:     t.Options,
		DependsOn:   t.DependsOn.Names(),
		Jobs:        t.Jobs,
		InstallTime: now,
	}
}

// LoadRecord reads the install record kept in installDir.
func LoadRecord(installDir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(installDir, recordFile))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// saveRecord replaces the install record atomically so a reader never sees
// a partial file.
func saveRecord(installDir string, rec *Record) error {
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(installDir, recordFile), data, 0o644)
}
