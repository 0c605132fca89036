package metrics

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var labelNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Label is a single name/value pair attached to every published metric.
type Label struct {
	Name  string
	Value string
}

// LabelSet is an ordered set of labels, sorted by name. It is built once
// at startup and shared read-only afterwards.
type LabelSet []Label

// ParseLabels converts a 'k=v,k2=v2' string into a LabelSet. Names are
// restricted to [A-Za-z0-9_], values get backslash and quote escaped so
// they embed safely into the exposition format. Malformed entries are
// skipped silently.
func ParseLabels(csv string) LabelSet {
	var ls LabelSet
	for _, p := range strings.Split(csv, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found {
			continue
		}
		ls = ls.Merge(Label{Name: k, Value: v})
	}
	return ls
}

// ReadLabelsFile loads extra static labels from a YAML mapping of
// name: value pairs.
func ReadLabelsFile(path string) (LabelSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	if err = yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("malformed labels file %s: %w", path, err)
	}
	var ls LabelSet
	for k, v := range m {
		ls = ls.Merge(Label{Name: k, Value: v})
	}
	return ls, nil
}

func sanitize(l Label) Label {
	l.Name = labelNameSanitizer.ReplaceAllString(strings.TrimSpace(l.Name), "_")
	l.Value = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(strings.TrimSpace(l.Value))
	return l
}

// Merge returns a new set with the given labels added, keeping the set
// sorted by name. A label with an already present name overwrites it.
func (ls LabelSet) Merge(labels ...Label) LabelSet {
	merged := slices.Clone(ls)
	for _, l := range labels {
		l = sanitize(l)
		if l.Name == "" {
			continue
		}
		i, found := slices.BinarySearchFunc(merged, l, func(a, b Label) int {
			return strings.Compare(a.Name, b.Name)
		})
		if found {
			merged[i] = l
			continue
		}
		merged = slices.Insert(merged, i, l)
	}
	return merged
}

// Names returns the label names in set order.
func (ls LabelSet) Names() []string {
	names := make([]string, len(ls))
	for i, l := range ls {
		names[i] = l.Name
	}
	return names
}

// Values returns the label values in set order.
func (ls LabelSet) Values() []string {
	values := make([]string, len(ls))
	for i, l := range ls {
		values[i] = l.Value
	}
	return values
}

// String renders the set as {name="value",...} or an empty string for an
// empty set, per the Prometheus exposition format.
func (ls LabelSet) String() string {
	if len(ls) == 0 {
		return ""
	}
	pairs := make([]string, len(ls))
	for i, l := range ls {
		pairs[i] = fmt.Sprintf(`%s="%s"`, l.Name, l.Value)
	}
	return "{" + strings.Join(pairs, ",") + "}"
}
