package app

import (
	"github.com/vk/pipewright/internal/registry"
	"github.com/vk/pipewright/modules/archive"
	"github.com/vk/pipewright/modules/bundle"
	"github.com/vk/pipewright/modules/copydir"
	"github.com/vk/pipewright/modules/docgen"
	"github.com/vk/pipewright/modules/execcmd"
	"github.com/vk/pipewright/modules/jsonmin"
	"github.com/vk/pipewright/modules/lint"
	"github.com/vk/pipewright/modules/minify"
	"github.com/vk/pipewright/modules/serve"
	"github.com/vk/pipewright/modules/watchmod"
)

// coreModules is the definitive list of all tool modules that are compiled
// into the pipewright binary.
var coreModules = []registry.Module{
	&archive.Module{},
	&bundle.Module{},
	&copydir.Module{},
	&docgen.Module{},
	&execcmd.Module{},
	&jsonmin.Module{},
	&lint.Module{},
	&minify.Module{},
	&serve.Module{},
	&watchmod.Module{},
}
