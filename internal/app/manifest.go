package app

import (
	"bufio"
	"strings"

	"github.com/spf13/afero"
)

// loadTypesManifest reads the present-types manifest: one type name per
// line, '#' comments and blank lines ignored.
func loadTypesManifest(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
