package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/go-playground/validator/v10"

	"github.com/sagarsuperuser/useradmin/errdefs"
	"github.com/sagarsuperuser/useradmin/internal/httputil"
)

// maxBodyBytes caps request bodies read by ValidateBody.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Normalizer is implemented by request schemas that clean up their values
// (trimming, case folding) before they are validated.
type Normalizer interface {
	Normalize()
}

// FieldViolation describes one failed rule of a request body.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// SchemaViolation is returned when a request body does not satisfy its schema.
type SchemaViolation struct {
	Fields []FieldViolation
}

func (e *SchemaViolation) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid request body: " + strings.Join(names, ", ")
}

// InvalidParameter classifies the violation as a client error.
func (e *SchemaViolation) InvalidParameter() {}

func (e *SchemaViolation) Unwrap() error {
	return cerrdefs.ErrInvalidArgument
}

// Details returns the per-field failures for the response body.
func (e *SchemaViolation) Details() any {
	return e.Fields
}

type bodyContextKey struct{}

// BodyFromContext returns the body decoded and validated by ValidateBody[T].
func BodyFromContext[T any](ctx context.Context) (*T, bool) {
	if ctx == nil {
		return nil, false
	}
	body, ok := ctx.Value(bodyContextKey{}).(*T)
	return body, ok
}

// ValidateBody wraps a route so that its JSON body is decoded into T and
// checked against T's `validate` tags before the handler runs. Unknown JSON
// fields are dropped. On failure the request ends with a *SchemaViolation.
func ValidateBody[T any]() RouteWrapper {
	return Wrap(func(next httputil.APIFunc) httputil.APIFunc {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request, vars map[string]string) error {
			body, err := decodeAndValidate[T](req)
			if err != nil {
				return err
			}

			ctx = context.WithValue(ctx, bodyContextKey{}, body)
			return next(ctx, rw, req.WithContext(ctx), vars)
		}
	})
}

func decodeAndValidate[T any](req *http.Request) (*T, error) {
	body := new(T)
	if req.Body != nil {
		dec := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes))
		err := dec.Decode(body)
		if err == nil {
			// the body must hold exactly one JSON value
			if dec.Decode(&struct{}{}) != io.EOF {
				err = errTrailingData
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, decodeViolation(err)
		}
	}

	if n, ok := any(body).(Normalizer); ok {
		n.Normalize()
	}

	err := validate.Struct(body)
	if err == nil {
		return body, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, errdefs.System(fmt.Errorf("validate request body: %w", err))
	}

	violation := &SchemaViolation{Fields: make([]FieldViolation, 0, len(verrs))}
	for _, fe := range verrs {
		violation.Fields = append(violation.Fields, FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return nil, violation
}

var errTrailingData = errors.New("unexpected data after JSON body")

func decodeViolation(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaViolation{Fields: []FieldViolation{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", typeErr.Type),
		}}}
	}
	return &SchemaViolation{Fields: []FieldViolation{{
		Field:   "body",
		Rule:    "json",
		Message: "malformed JSON body",
	}}}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a phone number in E.164 format"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
