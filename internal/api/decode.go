package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Do executes spec and decodes the JSON body into out. A nil out discards
// the body. Fields tagged validate:"required" that are missing or empty
// produce a DecodeError.
func (c *Client) Do(ctx context.Context, spec RequestSpec, out any) error {
	resp, err := c.Execute(ctx, spec)
	if err != nil {
		return err
	}
	return Decode(resp, out)
}

// Decode unmarshals a successful response into out and checks required fields.
func Decode(resp *Response, out any) error {
	if out == nil {
		return nil
	}
	if len(resp.Body) == 0 {
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusAccepted {
			return nil
		}
		return &apierrors.DecodeError{
			StatusCode: resp.StatusCode,
			Err:        errors.New("empty response body"),
		}
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &apierrors.DecodeError{
			StatusCode: resp.StatusCode,
			Body:       truncate(resp.Body, 512),
			Err:        err,
		}
	}

	if err := validateShape(out); err != nil {
		return &apierrors.DecodeError{
			StatusCode: resp.StatusCode,
			Body:       truncate(resp.Body, 512),
			Err:        err,
		}
	}
	return nil
}

// validateShape runs struct validation on out, or on each element when out
// points at a slice of structs. Other shapes are accepted as decoded.
func validateShape(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return validate.Struct(v.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := validateShape(v.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
