package trace

import (
	"embed"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Built-in scenario sizes assume a 64-bit word.
//
//go:embed scenarios/*.yaml
var scenarioFS embed.FS

// Scenarios returns the built-in traces sorted by name.
func Scenarios() ([]*Trace, error) {
	entries, err := scenarioFS.ReadDir("scenarios")
	if err != nil {
		return nil, errors.Wrap(err, "trace: list scenarios")
	}
	out := make([]*Trace, 0, len(entries))
	for _, e := range entries {
		tr, err := loadScenario(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	slices.SortFunc(out, func(a, b *Trace) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Scenario returns the built-in trace called name.
func Scenario(name string) (*Trace, error) {
	all, err := Scenarios()
	if err != nil {
		return nil, err
	}
	for _, tr := range all {
		if tr.Name == name {
			return tr, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownScenario, "%q", name)
}

func loadScenario(file string) (*Trace, error) {
	data, err := scenarioFS.ReadFile(path.Join("scenarios", file))
	if err != nil {
		return nil, errors.Wrapf(err, "trace: read scenario %s", file)
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", file)
	}
	return tr, nil
}
