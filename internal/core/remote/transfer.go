package remote

import (
	"bufio"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// SizeScript prints "<size>\t<index>" for every argument that is a regular
// file. Indexes are zero-based argument positions, so the remote shell's
// tilde expansion cannot break the mapping back to requested paths.
const SizeScript = `i=0
for f in "$@"; do
  if [ -f "$f" ]; then
    printf '%s\t%s\n' "$(wc -c < "$f" | tr -d ' ')" "$i"
  fi
  i=$((i+1))
done
`

// LocalFile is a local file considered for transfer.
type LocalFile struct {
	Path string
	Size int64
}

// TransferStep is the planned action for one local file.
type TransferStep struct {
	LocalPath  string
	RemotePath string
	Copy       bool
	Reason     string
}

// RemotePaths maps every local file to remoteDir/<basename>. Two files with
// the same basename would overwrite each other and are rejected.
func RemotePaths(remoteDir string, files []LocalFile) ([]string, error) {
	seen := make(map[string]string, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		remote := path.Join(remoteDir, filepath.Base(f.Path))
		if prev, ok := seen[remote]; ok {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, f.Path, remote)
		}
		seen[remote] = f.Path
		out = append(out, remote)
	}
	return out, nil
}

// ParseSizes reads the output of SizeScript run with remotePaths as arguments
// and returns the size of every remote path that exists.
func ParseSizes(out string, remotePaths []string) map[string]int64 {
	sizes := make(map[string]int64)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		sizeStr, idxStr, ok := strings.Cut(sc.Text(), "\t")
		if !ok {
			continue
		}
		size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
		if err != nil {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil || idx < 0 || idx >= len(remotePaths) {
			continue
		}
		sizes[remotePaths[idx]] = size
	}
	return sizes
}

// PlanTransfer decides, per file, whether it must be copied. A file whose
// remote copy has the same size is skipped unless force is set.
func PlanTransfer(files []LocalFile, remotePaths []string, remoteSizes map[string]int64, force bool) []TransferStep {
	steps := make([]TransferStep, 0, len(files))
	for i, f := range files {
		step := TransferStep{LocalPath: f.Path, RemotePath: remotePaths[i], Copy: true}
		size, exists := remoteSizes[remotePaths[i]]
		switch {
		case !exists:
			step.Reason = "missing on remote"
		case force:
			step.Reason = "forced"
		case size == f.Size:
			step.Copy = false
			step.Reason = "same size on remote"
		default:
			step.Reason = fmt.Sprintf("size differs (%d local, %d remote)", f.Size, size)
		}
		steps = append(steps, step)
	}
	return steps
}
