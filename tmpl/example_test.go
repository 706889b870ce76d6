package tmpl_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ardnew/stache/tmpl"
)

func Example() {
	ctx := context.Background()

	data := tmpl.NewHash().
		String("name", "Chris").
		Int("value", 10000).
		Bool("in_ca", true).
		Float("taxed_value", 6000).
		Context()

	out, err := tmpl.RenderText(ctx, strings.Join([]string{
		"Hello {{name}}",
		"You have just won {{value}} dollars!",
		"{{#in_ca}}",
		"Well, {{taxed_value}} dollars, after taxes.",
		"{{/in_ca}}",
	}, "\n"), data)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output:
	// Hello Chris
	// You have just won 10000 dollars!
	//
	// Well, 6000 dollars, after taxes.
}

func ExampleTemplate_Render() {
	ctx := context.Background()

	t := tmpl.Parse(ctx, "{{#repo}}<b>{{name}}</b>\n{{/repo}}{{^repo}}No repos :({{/repo}}")

	withRepos := tmpl.NewHash().List("repo", func(l *tmpl.ListBuilder) *tmpl.ListBuilder {
		return l.
			Hash(func(h *tmpl.HashBuilder) *tmpl.HashBuilder { return h.String("name", "resque") }).
			Hash(func(h *tmpl.HashBuilder) *tmpl.HashBuilder { return h.String("name", "hub") })
	}).Context()

	_ = t.Render(ctx, os.Stdout, withRepos)
	_ = t.Render(ctx, os.Stdout, tmpl.NewContext(nil))
	fmt.Println()
	// Output:
	// <b>resque</b>
	// <b>hub</b>
	// No repos :(
}

func ExampleWithPartials() {
	ctx := context.Background()

	partials := tmpl.PartialsFromStrings(ctx, map[string]string{
		"user": "<strong>{{ name }}</strong>",
	})

	data, err := tmpl.FromNative(map[string]any{
		"names": []any{
			map[string]any{"name": "Ann"},
			map[string]any{"name": "Bob"},
		},
	})
	if err != nil {
		fmt.Println(err)

		return
	}

	out, err := tmpl.RenderText(ctx,
		"{{#names}}{{> user }} {{/names}}",
		tmpl.NewContext(data.Fields()),
		tmpl.WithPartials(partials))
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output: <strong>Ann</strong> <strong>Bob</strong>
}

func ExampleHashBuilder_Lambda() {
	ctx := context.Background()

	data := tmpl.NewHash().
		String("name", "Willy").
		Lambda("wrapped", func(text string) string {
			return "<b>" + text + "</b>"
		}).
		Context()

	out, _ := tmpl.RenderText(ctx, "{{#wrapped}}{{name}} is awesome.{{/wrapped}}", data)

	fmt.Println(out)
	// Output: <b>{{name}} is awesome.</b>
}

func ExampleTemplate_Print() {
	ctx := context.Background()

	tmpl.Parse(ctx, "Hi {{ user.name }}!{{> footer }}").Print(ctx, os.Stdout)
	// Output:
	// StaticText "Hi "
	// Section # "user" (1 children)
	//   Value "name" {{name}}
	// StaticText "!"
	// Partial "footer" {{> footer }}
}
