package zone

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Resource property keys of the custom resource
const (
	PropertyZoneName    = "ZoneName"
	PropertyNameServers = "NameServers"
)

var propertiesPath = field.NewPath("ResourceProperties")

// Request is a zone delegation to register in the root zone
type Request struct {
	ZoneName    string
	NameServers []string
}

// ValidationError reports missing or malformed request fields. It is
// returned before any external call is made.
type ValidationError struct {
	Errors field.ErrorList
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid zone registration request: %v", e.Errors.ToAggregate())
}

// ParseRequest builds a Request from custom resource properties.
// NameServers may be a list of strings or a single comma-separated string.
// Properties other than ZoneName and NameServers are ignored.
func ParseRequest(properties map[string]interface{}) (Request, error) {
	var req Request
	var errs field.ErrorList

	zonePath := propertiesPath.Child(PropertyZoneName)
	switch v := properties[PropertyZoneName].(type) {
	case nil:
	case string:
		req.ZoneName = v
	default:
		errs = append(errs, field.TypeInvalid(zonePath, v, "must be a string"))
	}

	nsPath := propertiesPath.Child(PropertyNameServers)
	switch v := properties[PropertyNameServers].(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) != "" {
			req.NameServers = strings.Split(v, ",")
		}
	case []string:
		req.NameServers = append(req.NameServers, v...)
	case []interface{}:
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				errs = append(errs, field.TypeInvalid(nsPath.Index(i), item, "must be a string"))
				continue
			}
			req.NameServers = append(req.NameServers, s)
		}
	default:
		errs = append(errs, field.TypeInvalid(nsPath, v, "must be a list of strings"))
	}

	if len(errs) > 0 {
		return Request{}, &ValidationError{Errors: errs}
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks that both fields are present and non-empty
func (r Request) Validate() error {
	var errs field.ErrorList

	if strings.TrimSpace(r.ZoneName) == "" {
		errs = append(errs, field.Required(propertiesPath.Child(PropertyZoneName), "ZoneName must be provided"))
	}

	nsPath := propertiesPath.Child(PropertyNameServers)
	if len(r.NameServers) == 0 {
		errs = append(errs, field.Required(nsPath, "NameServers must be provided"))
	}
	for i, ns := range r.NameServers {
		if strings.TrimSpace(ns) == "" {
			errs = append(errs, field.Invalid(nsPath.Index(i), ns, "must not be empty"))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// FQDN returns name in fully qualified form with a trailing dot
func FQDN(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return name
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
