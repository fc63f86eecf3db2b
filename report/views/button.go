package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type ButtonVariant string

const (
	ButtonVariantDefault ButtonVariant = ""
	ButtonVariantOutline ButtonVariant = "outline"
)

type ButtonProps struct {
	Variant ButtonVariant
	Class   string
}

// LinkButton renders a link styled as a small button.
func LinkButton(props ButtonProps, href templ.SafeURL, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a class="%s" href="%s">%s</a>`,
			buttonClasses(props), templ.EscapeString(string(href)), templ.EscapeString(text))
		return err
	})
}

func buttonClasses(props ButtonProps) string {
	classes := []string{
		"inline-flex items-center justify-center whitespace-nowrap rounded-md text-sm font-medium h-8 px-3",
	}

	switch props.Variant {
	case ButtonVariantOutline:
		classes = append(classes, "border border-neutral-200 bg-white hover:bg-neutral-200 text-black")
	default:
		classes = append(classes, "bg-black text-white hover:bg-black/90")
	}

	if props.Class != "" {
		classes = append(classes, props.Class)
	}

	return strings.Join(classes, " ")
}
