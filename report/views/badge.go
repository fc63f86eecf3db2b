package views

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"

	"github.com/networkteam/hrmcheck/collector"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
	BadgeVariantOutline   BadgeVariant = "outline"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func Badge(props BadgeProps, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<span class="%s">%s</span>`, badgeClasses(props), templ.EscapeString(text))
		return err
	})
}

func StatusBadge(status collector.Status) templ.Component {
	variant := BadgeVariantSuccess
	if status != collector.StatusPassed {
		variant = BadgeVariantError
	}
	return Badge(BadgeProps{Variant: variant}, string(status))
}

// HTTPStatusBadge shows the status code, or "failed" for a request without response.
func HTTPStatusBadge(exchange collector.Exchange) templ.Component {
	switch {
	case exchange.Failure != "":
		return Badge(BadgeProps{Variant: BadgeVariantError}, "failed")
	case exchange.Status >= 400:
		return Badge(BadgeProps{Variant: BadgeVariantError}, fmt.Sprint(exchange.Status))
	case exchange.Status >= 300:
		return Badge(BadgeProps{Variant: BadgeVariantWarning}, fmt.Sprint(exchange.Status))
	default:
		return Badge(BadgeProps{Variant: BadgeVariantSuccess}, fmt.Sprint(exchange.Status))
	}
}

func LevelBadge(level slog.Level) templ.Component {
	variant := BadgeVariantSecondary
	switch {
	case level >= slog.LevelError:
		variant = BadgeVariantError
	case level >= slog.LevelWarn:
		variant = BadgeVariantWarning
	case level < slog.LevelInfo:
		variant = BadgeVariantOutline
	}
	return Badge(BadgeProps{Variant: variant}, level.String())
}

func badgeClasses(props BadgeProps) string {
	var classes []string

	classes = append(classes, "inline-flex items-center rounded-full border px-2.5 py-0.5 text-xs font-semibold font-mono")

	switch props.Variant {
	case BadgeVariantSecondary:
		classes = append(classes, "border-transparent bg-neutral-200 text-black")
	case BadgeVariantSuccess:
		classes = append(classes, "border-transparent bg-green-600 text-white")
	case BadgeVariantWarning:
		classes = append(classes, "border-transparent bg-orange-400 text-white")
	case BadgeVariantError:
		classes = append(classes, "border-transparent bg-red-500 text-white")
	case BadgeVariantOutline:
		classes = append(classes, "border-neutral-300 text-foreground")
	default:
		classes = append(classes, "border-transparent bg-black text-white")
	}

	if props.Class != "" {
		classes = append(classes, props.Class)
	}

	return strings.Join(classes, " ")
}
