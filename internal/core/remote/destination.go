// Package remote contains pure logic for the ssh-based workflows:
// destination parsing, bootstrap script rendering and transfer planning.
package remote

import (
	"fmt"
	"strings"
)

// Destination is a parsed [user@]host[:path] argument.
type Destination struct {
	User string
	Host string
	Path string
}

// Login returns user@host, or host alone.
func (d Destination) Login() string {
	if d.User == "" {
		return d.Host
	}
	return d.User + "@" + d.Host
}

// ParseDestination parses [user@]host. A path component is rejected.
func ParseDestination(s string) (Destination, error) {
	d, err := parse(s)
	if err != nil {
		return Destination{}, err
	}
	if d.Path != "" {
		return Destination{}, fmt.Errorf("destination %q must not include a path", s)
	}
	return d, nil
}

// ParseTransferTarget parses [user@]host:path. The path is required.
func ParseTransferTarget(s string) (Destination, error) {
	d, err := parse(s)
	if err != nil {
		return Destination{}, err
	}
	if d.Path == "" {
		return Destination{}, fmt.Errorf("target %q must be [user@]host:remote_dir", s)
	}
	return d, nil
}

func parse(s string) (Destination, error) {
	if s == "" || strings.ContainsAny(s, " \t\n'\"") {
		return Destination{}, fmt.Errorf("invalid destination %q", s)
	}

	var d Destination
	rest := s
	if i := strings.Index(rest, "@"); i >= 0 {
		d.User = rest[:i]
		rest = rest[i+1:]
		if d.User == "" {
			return Destination{}, fmt.Errorf("invalid destination %q: empty user", s)
		}
	}
	if i := strings.Index(rest, ":"); i >= 0 {
		d.Path = rest[i+1:]
		rest = rest[:i]
		if d.Path == "" {
			return Destination{}, fmt.Errorf("invalid destination %q: empty path", s)
		}
	}
	d.Host = rest
	if d.Host == "" || strings.HasPrefix(d.Host, "-") || strings.Contains(d.Host, "@") {
		return Destination{}, fmt.Errorf("invalid destination %q: bad host", s)
	}
	return d, nil
}
