// Package deps reads a package's dependency declaration file and keeps the
// set of dependencies a build target declares.
package deps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the dependency declaration file looked up next to CMakeLists.txt.
const FileName = "dependencies.json"

type Dependency struct {
	Name    string `json:"-"`
	Version string `json:"version,omitempty"`
}

// File is the decoded form of dependencies.json:
//
//	{"name": "WCSim", "deps": {"ROOT": {"version": "6.28.04"}}}
type File struct {
	Name         string                `json:"name,omitempty"`
	Dependencies map[string]Dependency `json:"deps"`
}

// Parse decodes a dependency file. If data is nil the file is read from disk.
func Parse(file string, data []byte) (*File, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var v File
	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	for name, dep := range v.Dependencies {
		if name == "" {
			return nil, fmt.Errorf("parse %s: empty dependency name", file)
		}
		dep.Name = name
		v.Dependencies[name] = dep
	}
	return &v, nil
}

// Read returns the dependencies declared in dir. A directory without a
// dependency file declares nothing.
func Read(dir string) (Set, error) {
	f, err := Parse(filepath.Join(dir, FileName), nil)
	if errors.Is(err, fs.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Set(f.Dependencies), nil
}
