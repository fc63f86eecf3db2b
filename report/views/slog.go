package views

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

func iterSlogAttrs(record slog.Record) iter.Seq[slog.Attr] {
	return func(yield func(attr slog.Attr) bool) {
		record.Attrs(yield)
	}
}

// formatAttrs writes attributes as YAML-like lines, groups indented.
func formatAttrs(attrs iter.Seq[slog.Attr]) string {
	var b strings.Builder
	var write func(attr slog.Attr, indent string)
	write = func(attr slog.Attr, indent string) {
		attr.Value = attr.Value.Resolve()
		if attr.Value.Kind() == slog.KindGroup {
			fmt.Fprintf(&b, "%s%s:\n", indent, attr.Key)
			for _, child := range attr.Value.Group() {
				write(child, indent+"  ")
			}
			return
		}
		fmt.Fprintf(&b, "%s%s: %s\n", indent, attr.Key, attr.Value.String())
	}
	for attr := range attrs {
		write(attr, "")
	}
	return b.String()
}
