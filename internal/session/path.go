package session

import (
	"fmt"
	"path/filepath"
)

// BuildPaths composes the canonical acquisition file path and its
// device-configuration sidecar path for key and token. Pure string assembly,
// no filesystem access: the same key and token always yield the same paths,
// so a path can be re-derived from a session document entry without
// re-scanning the directory.
func BuildPaths(dir string, key Key, token int) (wavPath, iniPath string) {
	stem := fmt.Sprintf("%s_%s_%s_%s_%s_%d",
		key.Lang, key.Spkr, key.Researcher, key.Timestamp, key.Item, token)
	return filepath.Join(dir, stem+".wav"), filepath.Join(dir, stem+".ini")
}
