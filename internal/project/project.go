// Package project loads the versioned project metadata and license text and
// derives the values exposed to configuration expressions, including the
// banner prepended to built artifacts.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/tidwall/gjson"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pipewright/internal/config"
)

// Project holds the metadata read once at startup plus the derived banner.
type Project struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string

	// Banner is the comment block prepended to built artifacts. The build
	// date inside it is captured once per process, at load time, so every
	// artifact of one invocation carries the same timestamp.
	Banner  string
	BuiltAt time.Time

	// Root is the directory task globs resolve against.
	Root string
}

// Load reads the metadata JSON and license file named by the model's
// project block. A missing metadata file is fatal; a missing license file
// just produces a banner without license text.
func Load(files *config.ProjectFiles) (*Project, error) {
	p := &Project{
		Root:    files.Root,
		BuiltAt: time.Now(),
	}

	if files.Metadata != "" {
		data, err := os.ReadFile(filepath.Join(files.Root, files.Metadata))
		if err != nil {
			return nil, fmt.Errorf("failed to read project metadata: %w", err)
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("project metadata %q is not valid JSON", files.Metadata)
		}
		meta := gjson.ParseBytes(data)
		p.Name = meta.Get("name").String()
		p.Version = meta.Get("version").String()
		p.Description = meta.Get("description").String()
		p.Homepage = meta.Get("homepage").String()
	}

	if files.License != "" {
		text, err := os.ReadFile(filepath.Join(files.Root, files.License))
		if err != nil {
			return nil, fmt.Errorf("failed to read license file: %w", err)
		}
		p.License = strings.TrimSpace(string(text))
	}

	p.Banner = p.buildBanner()
	return p, nil
}

// buildBanner renders the artifact header comment. Interpolation happens
// here, at configuration-build time, not per execution step.
func (p *Project) buildBanner() string {
	var b strings.Builder
	b.WriteString("/*!\n")
	fmt.Fprintf(&b, " * %s %s\n", p.Name, p.Version)
	if p.Homepage != "" {
		fmt.Fprintf(&b, " * %s\n", p.Homepage)
	}
	if p.License != "" {
		b.WriteString(" *\n")
		for _, line := range strings.Split(p.License, "\n") {
			b.WriteString(strings.TrimRight(" * "+line, " "))
			b.WriteString("\n")
		}
	}
	b.WriteString(" *\n")
	fmt.Fprintf(&b, " * Build date: %s\n", p.BuiltAt.Format("2006-01-02"))
	b.WriteString(" */\n")
	return b.String()
}

// EvalContext exposes the project values to task argument expressions as
// `project.*` and `banner`.
func (p *Project) EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project": cty.ObjectVal(map[string]cty.Value{
				"name":        cty.StringVal(p.Name),
				"version":     cty.StringVal(p.Version),
				"description": cty.StringVal(p.Description),
				"homepage":    cty.StringVal(p.Homepage),
			}),
			"banner": cty.StringVal(p.Banner),
		},
	}
}
