package remote

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// DefaultInstallers are the repository-relative installer scripts tried in order.
var DefaultInstallers = []string{"install.sh", "script/install", "bin/install"}

// BootstrapParams are the values passed to the bootstrap script as $1..$3.
type BootstrapParams struct {
	RepoURL    string
	Branch     string
	Target     string
	Installers []string
	NoInstall  bool
}

// Args returns the positional arguments for the rendered script.
func (p BootstrapParams) Args() []string {
	return []string{p.RepoURL, p.Branch, p.Target}
}

// Validate checks that every required value is present.
func (p BootstrapParams) Validate() error {
	var missing []string
	if p.RepoURL == "" {
		missing = append(missing, "repository URL")
	}
	if p.Branch == "" {
		missing = append(missing, "branch")
	}
	if p.Target == "" {
		missing = append(missing, "target")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	if strings.HasPrefix(p.Branch, "-") {
		return errors.New("branch must not start with '-'")
	}
	return nil
}

var bootstrapTmpl = template.Must(template.New("bootstrap").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`#!/usr/bin/env bash
# devkit remote bootstrap
set -euo pipefail

repo_url="$1"
branch="$2"
target="$3"
case "$target" in
  "~"|"~/"*) target="$HOME${target#\~}" ;;
esac

command -v git >/dev/null 2>&1 || { echo "git is not installed" >&2; exit 127; }

if [ -d "$target/.git" ]; then
  echo "updating $target ($branch)"
  git -C "$target" fetch --quiet origin "$branch"
  git -C "$target" checkout --quiet "$branch"
  git -C "$target" merge --ff-only --quiet "origin/$branch"
elif [ -e "$target" ]; then
  echo "$target exists and is not a git checkout" >&2
  exit 1
else
  echo "cloning into $target ($branch)"
  git clone --quiet --branch "$branch" "$repo_url" "$target"
fi
{{- if not .NoInstall}}

for installer in{{range .Installers}} {{quote .}}{{end}}; do
  if [ -x "$target/$installer" ]; then
    echo "running $installer"
    (cd "$target" && "./$installer")
    break
  fi
done
{{- end}}
`))

// RenderBootstrap renders the idempotent clone-or-update script.
func RenderBootstrap(p BootstrapParams) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if len(p.Installers) == 0 {
		p.Installers = DefaultInstallers
	}
	var buf bytes.Buffer
	if err := bootstrapTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render bootstrap script: %w", err)
	}
	return buf.String(), nil
}
