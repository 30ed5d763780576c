package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
)

var (
	ErrClosed   = errors.New("form is not open")
	ErrRejected = errors.New("submit rejected")
)

// Mode decides how a failed validation is shown to the user.
type Mode int

const (
	// DisableSubmit keeps the submit button disabled while the draft is invalid.
	DisableSubmit Mode = iota
	// BlockingAlert shows an inline alert when an invalid draft is submitted.
	BlockingAlert
)

// ValidationError lists the required fields that are blank.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequireNonBlank returns a ValidationError naming every field whose value is
// empty after trimming whitespace, or nil when all are filled in.
func RequireNonBlank(message string, fields map[string]string) error {
	var blank []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			blank = append(blank, name)
		}
	}
	if len(blank) == 0 {
		return nil
	}
	sort.Strings(blank)
	return &ValidationError{Fields: blank, Message: message}
}

// Schema describes the draft a form edits.
type Schema[D any] struct {
	Defaults func() D
	Set      func(draft *D, field, value string) error
	Validate func(draft D) error
	Mode     Mode
}

// SubmitFunc receives a validated draft. A non-nil error keeps the form open.
type SubmitFunc[D any] func(ctx context.Context, draft D) error

type Callbacks[D any] struct {
	OnSubmit SubmitFunc[D]
	OnClose  func()
}

// Controller is the state behind one modal form. It is not safe for
// concurrent use.
type Controller[D any] struct {
	schema    Schema[D]
	callbacks Callbacks[D]

	draft   D
	open    bool
	alert   string
	failure string
}

func NewController[D any](schema Schema[D], callbacks Callbacks[D]) *Controller[D] {
	return &Controller[D]{
		schema:    schema,
		callbacks: callbacks,
		draft:     schema.Defaults(),
	}
}

// Open resets the draft to its defaults and applies initial on top. If any
// initial value is rejected the form stays closed.
func (c *Controller[D]) Open(initial map[string]string) error {
	draft := c.schema.Defaults()
	if err := c.apply(&draft, initial); err != nil {
		return err
	}

	c.draft = draft
	c.open = true
	c.alert = ""
	c.failure = ""
	return nil
}

func (c *Controller[D]) IsOpen() bool {
	return c.open
}

func (c *Controller[D]) Draft() D {
	return c.draft
}

func (c *Controller[D]) Mode() Mode {
	return c.schema.Mode
}

// Alert is the blocking message from the last rejected submit, if any.
func (c *Controller[D]) Alert() string {
	return c.alert
}

// Failure describes the last submit the callback refused, if any.
func (c *Controller[D]) Failure() string {
	return c.failure
}

// SetField changes exactly one field of the draft.
func (c *Controller[D]) SetField(field, value string) error {
	return c.SetFields(map[string]string{field: value})
}

// SetFields changes several fields at once. Either all of them are applied
// or, on error, none.
func (c *Controller[D]) SetFields(values map[string]string) error {
	if !c.open {
		return ErrClosed
	}
	draft := c.draft
	if err := c.apply(&draft, values); err != nil {
		return err
	}
	c.draft = draft
	return nil
}

// apply sets values in field-name order so errors are reported
// deterministically.
func (c *Controller[D]) apply(draft *D, values map[string]string) error {
	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if err := c.schema.Set(draft, field, values[field]); err != nil {
			return err
		}
	}
	return nil
}

// CanSubmit reports whether the current draft passes validation.
func (c *Controller[D]) CanSubmit() bool {
	return c.schema.Validate(c.draft) == nil
}

// Submit validates the draft, hands it to OnSubmit and closes the form. The
// form stays open with the draft intact when validation or OnSubmit fails.
func (c *Controller[D]) Submit(ctx context.Context) error {
	if !c.open {
		return ErrClosed
	}

	if err := c.schema.Validate(c.draft); err != nil {
		if c.schema.Mode == BlockingAlert {
			c.alert = err.Error()
		}
		return err
	}
	c.alert = ""

	if c.callbacks.OnSubmit != nil {
		if err := c.callbacks.OnSubmit(ctx, c.draft); err != nil {
			log.Printf("Form submit failed: %v", err)
			c.failure = err.Error()
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
	}

	c.Close()
	return nil
}

// Close hides the form and resets the draft to its defaults.
func (c *Controller[D]) Close() {
	if c.callbacks.OnClose != nil {
		c.callbacks.OnClose()
	}
	c.open = false
	c.draft = c.schema.Defaults()
	c.alert = ""
	c.failure = ""
}
