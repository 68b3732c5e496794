package manifest

import (
	"gopkg.in/yaml.v3"

	"github.com/vessel-build/vessel/internal/schema"
)

// stepValidator accepts one provisioning step variant, selected by local
// tag.
func stepValidator() schema.Validator {
	return schema.NewEnum().
		Option("Ubuntu", schema.NewScalar()).
		Option("UbuntuUniverse", schema.Nothing{}).
		Option("Install", schema.NewSequence(schema.NewScalar())).
		Option("TarInstall", schema.NewStructure().
			Member("url", schema.NewScalar()).
			Member("script", schema.NewScalar()).
			Member("subdir", schema.NewScalar().Optional()).
			Member("sha256", schema.NewScalar().Optional())).
		Option("Sh", schema.NewScalar()).
		Option("Env", schema.NewMapping(schema.NewScalar(), schema.NewScalar()))
}

func environValidator() schema.Validator {
	return schema.NewMapping(schema.NewScalar(), schema.NewScalar())
}

func containerValidator() schema.Validator {
	return schema.NewStructure().
		Member("setup", schema.NewSequence(stepValidator())).
		Member("environ", environValidator())
}

// runToShell upgrades `run: some command` to a /bin/sh -c invocation, so a
// command can be written either as a string or as an argument vector.
func runToShell(scalar *yaml.Node) []*yaml.Node {
	return []*yaml.Node{
		schema.ScalarNode("/bin/sh"),
		schema.ScalarNode("-c"),
		scalar,
	}
}

func commandValidator() schema.Validator {
	return schema.NewStructure().
		Member("container", schema.NewScalar()).
		Member("run", schema.NewSequence(schema.NewScalar()).Parser(runToShell)).
		Member("environ", environValidator()).
		Member("work_dir", schema.NewDirectory().Absolute(false).Optional()).
		Member("description", schema.NewScalar().Optional()).
		Member("epilog", schema.NewScalar().Optional())
}

// configValidator is the schema for the whole manifest.
func configValidator() schema.Validator {
	return schema.NewStructure().
		Member("containers", schema.NewMapping(schema.NewScalar(), containerValidator())).
		Member("commands", schema.NewMapping(schema.NewScalar(), commandValidator()))
}
