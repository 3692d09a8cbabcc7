// Package config loads the optional per-package hkpilot.hcl file.
//
//	name           = "WCSim"
//	cmakelist_path = "."
//	jobs           = 8
//	generator      = "Ninja"
//	build_type     = "Release"
//	depends_on     = ["ROOT", "Geant4"]
//	options = {
//	  WCSim_Geant4_Visualisation = true
//	  CMAKE_CXX_STANDARD         = 17
//	  CMAKE_PREFIX_PATH          = ["/opt/a", "/opt/b"]
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hyperk/hkpilot/pkgs/buildsys"
	"github.com/hyperk/hkpilot/pkgs/deps"
	"github.com/zclconf/go-cty/cty"
)

// FileName is looked up at the root of a package's source path.
const FileName = "hkpilot.hcl"

// Package holds the settings read from hkpilot.hcl.
type Package struct {
	Name           string
	CMakeListsPath string
	Jobs           int
	Generator      string
	BuildType      string
	DependsOn      []string
	Options        map[string]string
}

type hclPackageFile struct {
	Name           string         `hcl:"name,optional"`
	CMakeListsPath string         `hcl:"cmakelist_path,optional"`
	Jobs           int            `hcl:"jobs,optional"`
	Generator      string         `hcl:"generator,optional"`
	BuildType      string         `hcl:"build_type,optional"`
	DependsOn      []string       `hcl:"depends_on,optional"`
	Options        hcl.Expression `hcl:"options,optional"`
}

// Load reads hkpilot.hcl from dir. The returned error satisfies
// errors.Is(err, fs.ErrNotExist) when the package has no such file.
func Load(dir string) (*Package, error) {
	path := filepath.Join(dir, FileName)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Parse decodes the content of an hkpilot.hcl file.
func Parse(filename string, src []byte) (*Package, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var raw hclPackageFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if raw.Jobs < 0 {
		return nil, fmt.Errorf("%s: jobs must not be negative, got %d", filename, raw.Jobs)
	}

	options, err := decodeOptions(raw.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &Package{
		Name:           raw.Name,
		CMakeListsPath: raw.CMakeListsPath,
		Jobs:           raw.Jobs,
		Generator:      raw.Generator,
		BuildType:      raw.BuildType,
		DependsOn:      raw.DependsOn,
		Options:        options,
	}, nil
}

// Apply copies every setting present in p onto t.
func (p *Package) Apply(t *buildsys.Target) {
	if p.Name != "" {
		t.Name = p.Name
	}
	if p.CMakeListsPath != "" {
		t.CMakeListsPath = p.CMakeListsPath
	}
	if p.Jobs != 0 {
		t.Jobs = p.Jobs
	}
	if p.Generator != "" {
		t.Generator = p.Generator
	}
	if p.BuildType != "" {
		t.BuildType = p.BuildType
	}
	if len(p.DependsOn) > 0 && t.DependsOn == nil {
		t.DependsOn = deps.Set{}
	}
	for _, name := range p.DependsOn {
		t.DependsOn.Add(deps.Dependency{Name: name})
	}
	for k, v := range p.Options {
		t.SetOption(k, v)
	}
}

// decodeOptions turns the options object into CMake cache values: booleans
// become ON/OFF, numbers their decimal form and lists are joined with ';'.
func decodeOptions(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("options: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("options must be an object, got %s", ty.FriendlyName())
	}

	options := make(map[string]string, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		s, err := optionValue(v)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", key, err)
		}
		options[key] = s
	}
	return options, nil
}

func optionValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		if v.True() {
			return "ON", nil
		}
		return "OFF", nil
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case ty.IsTupleType() || ty.IsListType():
		var items []string
		for it := v.ElementIterator(); it.Next(); {
			_, item := it.Element()
			s, err := optionValue(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ";"), nil
	}
	return "", fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

// IsNotExist reports whether err means the package has no hkpilot.hcl.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
