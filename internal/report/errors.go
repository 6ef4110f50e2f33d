package report

import "fmt"

// TemplateError represents a report template rendering error.
type TemplateError struct {
	// Template is the name of the template that failed to render
	Template string
	// Underlying error
	Err error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("failed to render template %q: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// OutputError represents a failure to write a report file.
type OutputError struct {
	// Path is the report file that could not be written
	Path string
	// Underlying error
	Err error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to write report %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// UnknownFormatError is returned for an unsupported --format value.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown report format %q (expected html, json or yaml)", e.Format)
}
