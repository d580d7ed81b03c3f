package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ambarahq/ambara/graphdoc"
)

// ResourceStage checks filesystem-backed parameters: any String
// parameter whose name contains "path" or "file" is
// treated as load-style (must resolve — glob patterns must match at
// least one entry) if the node has no inputs, or save-style (missing
// parent directory is a warning, since it will be created) if the node
// has no outputs.
func ResourceStage(g *graphdoc.Graph) ([]*ValidationWarning, []*ValidationError) {
	var warnings []*ValidationWarning
	var errs []*ValidationError

	for _, n := range g.Nodes() {
		if n.Disabled {
			continue
		}
		meta := n.Filter.Metadata()
		loadStyle := len(meta.Inputs) == 0
		saveStyle := len(meta.Outputs) == 0

		for _, p := range meta.Parameters {
			if !strings.Contains(strings.ToLower(p.Name), "path") && !strings.Contains(strings.ToLower(p.Name), "file") {
				continue
			}
			v, ok := n.EffectiveParameter(p.Name)
			if !ok {
				continue
			}
			path, ok := v.AsString()
			if !ok || path == "" {
				continue
			}

			switch {
			case loadStyle:
				matches, err := filepath.Glob(path)
				if err != nil || len(matches) == 0 {
					errs = append(errs, &ValidationError{
						Kind:    KindResourceNotFound,
						Message: fmt.Sprintf("parameter %q (%s) does not resolve to any file", p.Name, path),
						Nodes:   []string{n.ID},
						Fix:     fmt.Sprintf("Check that the file '%s' exists", path),
						HasFix:  true,
					})
				}
			case saveStyle:
				dir := filepath.Dir(path)
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					warnings = append(warnings, &ValidationWarning{
						Kind:    KindResourceNotFound,
						Message: fmt.Sprintf("parent directory %q for parameter %q does not exist yet; it will be created", dir, p.Name),
						Nodes:   []string{n.ID},
					})
				}
			}
		}
	}

	return warnings, errs
}
