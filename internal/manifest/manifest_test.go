package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
containers:
  doc:
    setup:
    - !Ubuntu xenial
    - !UbuntuUniverse
    - !Install [make, mdbook]
    environ:
      HOME: /work/target

  build:
    setup:
    - !Ubuntu xenial
    - !Install [make, gcc]
    - !TarInstall
      url: https://static.rust-lang.org/dist/rust-1.10.0-x86_64-unknown-linux-gnu.tar.gz
      script: ./install.sh --prefix=/usr --components=rustc,cargo
      sha256: f737a595..
    environ:
      HOME: /work/target

commands:
  make:
    description: Build the library
    container: build
    run: [cargo, build]

  test:
    description: Run the tests
    container: build
    run: [cargo, test]

  doc:
    description: Build documentation
    container: doc
    work-dir: doc
    run: [make]
    epilog: |
      Documentation is in doc/_book
`

func TestLoadBytes_Sample(t *testing.T) {
	cfg, err := LoadBytes("vessel.yaml", []byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "doc"}, cfg.ContainerNames())
	assert.Equal(t, []string{"doc", "make", "test"}, cfg.CommandNames())

	build := cfg.Containers["build"]
	require.Len(t, build.Setup, 3)
	assert.Equal(t, Ubuntu{Release: "xenial"}, build.Setup[0])
	assert.Equal(t, Install{Packages: []string{"make", "gcc"}}, build.Setup[1])
	ti, ok := build.Setup[2].(TarInstall)
	require.True(t, ok)
	assert.Equal(t, "./install.sh --prefix=/usr --components=rustc,cargo", ti.Script)
	assert.Equal(t, "f737a595..", ti.SHA256)
	assert.Equal(t, map[string]string{"HOME": "/work/target"}, build.Environ)

	docCtr := cfg.Containers["doc"]
	require.Len(t, docCtr.Setup, 3)
	assert.Equal(t, UbuntuUniverse{}, docCtr.Setup[1])

	doc := cfg.Commands["doc"]
	assert.Equal(t, "doc", doc.Container)
	assert.Equal(t, "doc", doc.WorkDir)
	assert.Equal(t, []string{"make"}, doc.Run)
	assert.Contains(t, doc.Epilog, "doc/_book")

	mk := cfg.Commands["make"]
	assert.Equal(t, "build", mk.Container)
	assert.Equal(t, "Build the library", mk.Description)
	assert.Equal(t, []string{"cargo", "build"}, mk.Run)
	assert.Empty(t, mk.WorkDir)
}

func TestLoadBytes_RunStringUpgrade(t *testing.T) {
	cfg, err := LoadBytes("f", []byte(`
containers:
  base:
    setup: [!Ubuntu focal]
commands:
  hello:
    container: base
    run: echo hello world
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/sh", "-c", "echo hello world"},
		cfg.Commands["hello"].Run)
}

func TestLoadBytes_ShAndEnvSteps(t *testing.T) {
	cfg, err := LoadBytes("f", []byte(`
containers:
  base:
    setup:
    - !Ubuntu focal
    - !Env {DEBIAN_FRONTEND: noninteractive}
    - !Sh "apt-get clean"
commands: {}
`))
	require.NoError(t, err)
	setup := cfg.Containers["base"].Setup
	require.Len(t, setup, 3)
	assert.Equal(t, Env{Vars: map[string]string{"DEBIAN_FRONTEND": "noninteractive"}}, setup[1])
	assert.Equal(t, Sh{Command: "apt-get clean"}, setup[2])
}

func TestLoadBytes_UnknownContainerReference(t *testing.T) {
	_, err := LoadBytes("f", []byte(`
containers:
  base:
    setup: [!Ubuntu focal]
commands:
  broken:
    container: missing
    run: [true]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `commands.broken.container`)
	assert.Contains(t, err.Error(), `unknown container "missing"`)
}

func TestLoadBytes_EmptySetup(t *testing.T) {
	_, err := LoadBytes("f", []byte(`
containers:
  base:
    setup: []
commands: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "containers.base.setup")
	assert.Contains(t, err.Error(), "at least one provisioning step")
}

func TestLoadBytes_EmptyRun(t *testing.T) {
	_, err := LoadBytes("f", []byte(`
containers:
  base:
    setup: [!Ubuntu focal]
commands:
  nothing:
    container: base
    run: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commands.nothing.run")
}

func TestLoadBytes_UnknownKeyHasPosition(t *testing.T) {
	_, err := LoadBytes("vessel.yaml", []byte(`
containers:
  base:
    setup: [!Ubuntu focal]
    enviorn: {A: b}
commands: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vessel.yaml:4:5")
	assert.Contains(t, err.Error(), "keys [enviorn] are not expected")
}

func TestLoadBytes_UnknownStepTag(t *testing.T) {
	_, err := LoadBytes("f", []byte(`
containers:
  base:
    setup: [!Alpine 3.19]
commands: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the tag Alpine is not expected")
}

func TestLoadBytes_WorkDirConstraints(t *testing.T) {
	absolute := `
containers:
  base:
    setup: [!Ubuntu focal]
commands:
  c:
    container: base
    work-dir: /etc
    run: [true]
`
	_, err := LoadBytes("f", []byte(absolute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be absolute")

	escaping := `
containers:
  base:
    setup: [!Ubuntu focal]
commands:
  c:
    container: base
    work-dir: ../outside
    run: [true]
`
	_, err = LoadBytes("f", []byte(escaping))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/../ is not allowed")
}

func TestLoad_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0644))

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading file")
}
