package render

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"
)

// ItemFunc renders one record to a fragment.
type ItemFunc[T any] func(item T) (string, error)

// Plain adapts an infallible render function.
func Plain[T any](fn func(item T) string) ItemFunc[T] {
	return func(item T) (string, error) {
		return fn(item), nil
	}
}

// TemplateItem compiles an html/template and returns an ItemFunc executing it
// with the record as dot. Record values are escaped for their HTML context.
func TemplateItem[T any](text string) (ItemFunc[T], error) {
	tmpl, err := template.New("item").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing item template: %w", err)
	}

	return func(item T) (string, error) {
		var buf bytes.Buffer
		if execErr := tmpl.Execute(&buf, item); execErr != nil {
			return "", fmt.Errorf("rendering item: %w", execErr)
		}
		return buf.String(), nil
	}, nil
}

// TextItem compiles a text/template for plain-text surfaces such as the terminal.
// Nothing is escaped.
func TextItem[T any](text string) (ItemFunc[T], error) {
	tmpl, err := texttemplate.New("item").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing item template: %w", err)
	}

	return func(item T) (string, error) {
		var buf bytes.Buffer
		if execErr := tmpl.Execute(&buf, item); execErr != nil {
			return "", fmt.Errorf("rendering item: %w", execErr)
		}
		return buf.String(), nil
	}, nil
}

// Items renders every record with fn and concatenates the fragments in order.
func Items[T any](records []T, fn ItemFunc[T]) (string, error) {
	var buf bytes.Buffer
	for i, record := range records {
		fragment, err := fn(record)
		if err != nil {
			return "", fmt.Errorf("item %d: %w", i, err)
		}
		buf.WriteString(fragment)
	}
	return buf.String(), nil
}
