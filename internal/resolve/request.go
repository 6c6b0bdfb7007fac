package resolve

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/muurk/kasactl/internal/discovery"
)

// Request is the user-supplied identification of one device
type Request struct {
	// Host is an explicit IP address or host name
	Host string `validate:"excluded_with=Alias"`

	// Alias is a device name to look up by broadcast
	Alias string

	// Kind is an optional hint; KindUnknown means auto-detect
	Kind discovery.Kind `validate:"oneof=0 1 2 3"`

	// Target is the broadcast address for alias lookup and discovery
	Target string `validate:"required"`

	// Timeout is the listen window of each discovery round
	Timeout time.Duration `validate:"gt=0"`

	// Attempts is the alias lookup budget
	Attempts int `validate:"gte=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field as one InvalidArgument error
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return discovery.NewInvalidArgument("invalid request: %v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return discovery.NewInvalidArgument("invalid request: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.StructField())
	switch fe.Tag() {
	case "excluded_with":
		return "host and alias are mutually exclusive"
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be positive (got %v)", field, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %v is not a known device kind", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
