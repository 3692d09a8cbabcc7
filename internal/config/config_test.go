package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hyperk/hkpilot/pkgs/buildsys"
)

const sample = `
name           = "WCSim"
cmakelist_path = "src"
jobs           = 8
generator      = "Ninja"
build_type     = "Release"
depends_on     = ["ROOT", "Geant4"]
options = {
  WCSim_Geant4_Visualisation = true
  WCSim_Debug                = false
  CMAKE_CXX_STANDARD         = 17
  CMAKE_PREFIX_PATH          = ["/opt/a", "/opt/b"]
  FOO                        = "bar"
}
`

func TestParse(t *testing.T) {
	p, err := Parse(FileName, []byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := &Package{
		Name:           "WCSim",
		CMakeListsPath: "src",
		Jobs:           8,
		Generator:      "Ninja",
		BuildType:      "Release",
		DependsOn:      []string{"ROOT", "Geant4"},
		Options: map[string]string{
			"WCSim_Geant4_Visualisation": "ON",
			"WCSim_Debug":                "OFF",
			"CMAKE_CXX_STANDARD":         "17",
			"CMAKE_PREFIX_PATH":          "/opt/a;/opt/b",
			"FOO":                        "bar",
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	p, err := Parse(FileName, []byte(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := cmp.Diff(&Package{}, p); diff != "" {
		t.Errorf("Parse of empty file mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax":        `name = `,
		"unknown":       `colour = "blue"`,
		"negative jobs": `jobs = -1`,
		"options type":  `options = "x"`,
		"option null":   `options = { A = null }`,
		"option object": `options = { A = { B = 1 } }`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(FileName, []byte(src)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", src)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); !IsNotExist(err) {
		t.Fatalf("Load without file = %v, want not-exist", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(`jobs = 2`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", p.Jobs)
	}
}

func TestApply(t *testing.T) {
	tgt := buildsys.NewTarget("pkg", "sys")
	tgt.SetOption("KEEP", "1")
	tgt.SetOption("FOO", "old")

	p, err := Parse(FileName, []byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	p.Apply(tgt)

	if tgt.Name != "WCSim" || tgt.CMakeListsPath != "src" || tgt.Jobs != 8 {
		t.Errorf("target = %+v", tgt)
	}
	if tgt.Generator != "Ninja" || tgt.BuildType != "Release" {
		t.Errorf("generator/build type = %q/%q", tgt.Generator, tgt.BuildType)
	}
	if tgt.Options["KEEP"] != "1" || tgt.Options["FOO"] != "bar" {
		t.Errorf("Options = %v", tgt.Options)
	}
	if diff := cmp.Diff([]string{"Geant4", "ROOT"}, tgt.DependsOn.Names()); diff != "" {
		t.Errorf("DependsOn mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEmptyKeepsDefaults(t *testing.T) {
	tgt := buildsys.NewTarget("pkg", "sys")
	before := *tgt
	(&Package{}).Apply(tgt)
	if tgt.Name != before.Name || tgt.Jobs != before.Jobs || tgt.BuildDir != before.BuildDir {
		t.Errorf("empty package changed target: %+v", tgt)
	}
}
