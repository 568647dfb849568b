// Package config defines the format-agnostic model of a project's pipeline
// configuration: task entries, named pipelines, and project metadata
// pointers. Format-specific loaders (see internal/hclcfg) translate their
// schema into this model; nothing downstream of loading depends on the
// configuration syntax.
package config
