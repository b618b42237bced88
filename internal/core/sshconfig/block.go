// Package sshconfig renders and splices the devkit-managed block of an ssh
// client config file.
package sshconfig

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Markers delimiting the managed block. Everything between them is owned by devkit.
const (
	BeginMarker = "# >>> devkit managed hosts >>>"
	EndMarker   = "# <<< devkit managed hosts <<<"
)

// ErrUnterminatedBlock is returned when a begin marker has no matching end marker.
var ErrUnterminatedBlock = errors.New("managed block has no end marker")

// Host is one managed Host entry.
type Host struct {
	Alias        string
	HostName     string
	User         string
	Port         int
	IdentityFile string
}

// RenderBlock renders hosts between the markers, in the given order.
func RenderBlock(hosts []Host) (string, error) {
	var b strings.Builder
	b.WriteString(BeginMarker + "\n")
	for i, h := range hosts {
		if h.Alias == "" || strings.ContainsAny(h.Alias, " \t") {
			return "", fmt.Errorf("host %d: invalid alias %q", i+1, h.Alias)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Host %s\n", h.Alias)
		writeOption(&b, "HostName", h.HostName)
		writeOption(&b, "User", h.User)
		if h.Port > 0 {
			writeOption(&b, "Port", strconv.Itoa(h.Port))
		}
		if h.IdentityFile != "" {
			writeOption(&b, "IdentityFile", h.IdentityFile)
			writeOption(&b, "IdentitiesOnly", "yes")
		}
	}
	b.WriteString(EndMarker + "\n")
	return b.String(), nil
}

func writeOption(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    %s %s\n", key, value)
}

// Splice replaces the managed block in existing with block, or appends block
// when there is none. Content outside the markers is preserved byte for byte.
func Splice(existing, block string) (string, error) {
	begin := strings.Index(existing, BeginMarker)
	if begin < 0 {
		if existing == "" {
			return block, nil
		}
		sep := "\n"
		if !strings.HasSuffix(existing, "\n") {
			sep = "\n\n"
		}
		return existing + sep + block, nil
	}

	rel := strings.Index(existing[begin:], EndMarker)
	if rel < 0 {
		return "", ErrUnterminatedBlock
	}
	end := begin + rel + len(EndMarker)
	if end < len(existing) && existing[end] == '\n' {
		end++
	}
	return existing[:begin] + block + existing[end:], nil
}

// Validate checks that content parses as an ssh client config.
func Validate(content string) error {
	if _, err := ssh_config.Decode(strings.NewReader(content)); err != nil {
		return fmt.Errorf("invalid ssh config: %w", err)
	}
	return nil
}

// LookupPort returns the Port configured for alias in content, if any.
func LookupPort(content []byte, alias string) (int, bool, error) {
	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return 0, false, fmt.Errorf("invalid ssh config: %w", err)
	}
	value, err := cfg.Get(alias, "Port")
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("invalid port %q for host %s", value, alias)
	}
	return port, true, nil
}
