package receipt

import (
	"encoding/json"
	"fmt"
)

// Field labels carried by ParseError.
const (
	FieldItemPrice     = "item price"
	FieldReceiptDate   = "receipt date"
	FieldReceiptTime   = "receipt time"
	FieldReceiptTotal  = "receipt total"
	FieldRetailer      = "receipt retailer"
	FieldItems         = "receipt items"
	FieldItem          = "receipt item"
	FieldItemShortDesc = "item short description"
)

// MissingFieldError - a required key is absent from a submitted payload
type MissingFieldError struct {
	Field   string
	Payload map[string]any
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q in %s", e.Field, renderPayload(e.Payload))
}

// ParseError - a present value could not be converted to its target type
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not parse %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("could not parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func renderPayload(payload map[string]any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(b)
}
