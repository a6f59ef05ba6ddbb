package router

import "strings"

const sourceMarker = "\n\n_Source:"

// Annotate appends the source line to output. With no sources, output is
// returned unchanged.
func Annotate(output string, sources []string) string {
	var names []string
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		return output
	}
	return output + sourceMarker + " " + strings.Join(names, ", ") + "_"
}

// SplitSource separates an annotated output into its body and sources.
// ok is false when output carries no source line.
func SplitSource(output string) (body string, sources []string, ok bool) {
	idx := strings.LastIndex(output, sourceMarker)
	if idx < 0 {
		return output, nil, false
	}
	rest := strings.TrimSpace(output[idx+len(sourceMarker):])
	rest = strings.TrimSuffix(rest, "_")
	for _, s := range strings.Split(rest, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}
	return output[:idx], sources, true
}
