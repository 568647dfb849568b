// Package hclcfg implements the HCL frontend for pipeline configuration.
// It parses `task`, `pipeline`, and `project` blocks into schema structs,
// translates them into the format-agnostic config model, and provides the
// decoder that binds a task's raw arguments body to its handler's input
// struct at execution time.
package hclcfg
