package pipeline

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

var datedDirRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// DiscoverFiles walks the input root and returns the JSON documents to
// process, in lexical order. index.json files and non-JSON files are
// skipped. Inside news trees only files directly under a dated YYYY-MM
// directory are picked up, and the walk does not descend below a dated
// directory.
func DiscoverFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isNewsPath(path) && datedDirRe.MatchString(filepath.Base(filepath.Dir(path))) {
				return fs.SkipDir
			}
			return nil
		}

		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".json") || name == "index.json" {
			return nil
		}
		if isNewsPath(path) && !datedDirRe.MatchString(filepath.Base(filepath.Dir(path))) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	return files, err
}

func isNewsPath(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(seg, "news") {
			return true
		}
	}
	return false
}
