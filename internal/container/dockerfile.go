package container

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/vessel-build/vessel/internal/manifest"
)

// dockerfileTemplate frames the generated build file. Step bodies are
// rendered separately because the step set is heterogeneous.
const dockerfileTemplate = `FROM {{ .From }}
LABEL "vessel"=""
{{- range .Lines }}
{{ . }}
{{- end }}
{{- range $k, $v := .Env }}
ENV {{ $k }}={{ Quote $v }}
{{- end }}
WORKDIR /work
`

type dockerfileData struct {
	From  string
	Lines []string
	Env   map[string]string
}

var tmpl = template.Must(template.New("dockerfile").
	Funcs(template.FuncMap{"Quote": func(s string) string {
		return fmt.Sprintf("%q", s)
	}}).
	Parse(dockerfileTemplate))

// Render generates the Dockerfile that provisions a container template.
// The first step must select a base image; remaining steps render in order.
func Render(ctr *manifest.Container) (string, error) {
	if len(ctr.Setup) == 0 {
		return "", fmt.Errorf("container %q has no provisioning steps", ctr.Name)
	}
	base, ok := ctr.Setup[0].(manifest.Ubuntu)
	if !ok {
		return "", fmt.Errorf("container %q: first provisioning step must select a base image", ctr.Name)
	}

	data := dockerfileData{
		From: "ubuntu:" + base.Release,
		Env:  ctr.Environ,
	}
	for i, step := range ctr.Setup[1:] {
		line, err := renderStep(step)
		if err != nil {
			return "", fmt.Errorf("container %q: setup[%d]: %w", ctr.Name, i+1, err)
		}
		data.Lines = append(data.Lines, line)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("container %q: render: %w", ctr.Name, err)
	}
	return buf.String(), nil
}

func renderStep(step manifest.Step) (string, error) {
	switch s := step.(type) {
	case manifest.Ubuntu:
		return "", fmt.Errorf("base image selected twice")
	case manifest.UbuntuUniverse:
		return "RUN apt-get update -qq" +
			" && apt-get install -y -qq --no-install-recommends software-properties-common" +
			" && add-apt-repository universe", nil
	case manifest.Install:
		if len(s.Packages) == 0 {
			return "", fmt.Errorf("empty package list")
		}
		return "RUN apt-get update -qq" +
			" && apt-get install -y -qq --no-install-recommends " +
			strings.Join(s.Packages, " ") +
			" && rm -rf /var/lib/apt/lists/*", nil
	case manifest.TarInstall:
		return renderTarInstall(s), nil
	case manifest.Sh:
		return "RUN " + s.Command, nil
	case manifest.Env:
		keys := make([]string, 0, len(s.Vars))
		for k := range s.Vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, len(keys))
		for i, k := range keys {
			lines[i] = fmt.Sprintf("ENV %s=%q", k, s.Vars[k])
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("unsupported step %T", step)
}

// renderTarInstall fetches an archive, optionally verifies its checksum,
// unpacks it, and runs the install script from the unpacked tree (or a
// named subdirectory of it).
func renderTarInstall(s manifest.TarInstall) string {
	var b strings.Builder
	b.WriteString("RUN apt-get update -qq" +
		" && apt-get install -y -qq --no-install-recommends curl ca-certificates" +
		" \\\n && mkdir -p /tmp/tar-install && cd /tmp/tar-install")
	fmt.Fprintf(&b, " \\\n && curl -fsSL %q -o archive", s.URL)
	if s.SHA256 != "" {
		fmt.Fprintf(&b, " \\\n && echo %q | sha256sum -c -", s.SHA256+"  archive")
	}
	b.WriteString(" \\\n && tar -xaf archive && rm archive")
	if s.Subdir != "" {
		fmt.Fprintf(&b, " \\\n && cd %q", s.Subdir)
	} else {
		// Default to the single directory the archive unpacked into.
		b.WriteString(" \\\n && cd \"$(find . -mindepth 1 -maxdepth 1 -type d | head -1)\"")
	}
	fmt.Fprintf(&b, " \\\n && %s", s.Script)
	b.WriteString(" \\\n && cd / && rm -rf /tmp/tar-install")
	return b.String()
}

// ImageTag returns the image tag for a container template. The tag embeds
// a digest of the rendered Dockerfile, so a changed manifest gets a new tag
// and an unchanged one reuses the existing image.
func ImageTag(ctr *manifest.Container) (string, error) {
	dockerfile, err := Render(ctr)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(dockerfile))
	return fmt.Sprintf("vessel/%s:%s", ctr.Name, hex.EncodeToString(sum[:6])), nil
}
