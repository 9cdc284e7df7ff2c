package am

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/teranos/formulary/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report keys the way they are written in am.toml
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.WithHint(
				errors.NewInvalidConfigError("%s must satisfy %s, got %v", configKey(fe), describeTag(fe), fe.Value()),
				"run 'formulary am show' to see the effective configuration",
			)
		}
		return errors.Wrap(err, "failed to validate config")
	}

	// Zero means zero: the text anchor must land inside the canvas
	if c.Export.X >= c.Export.Width {
		return errors.NewInvalidConfigError("export.x must be < export.width (%d), got %d", c.Export.Width, c.Export.X)
	}
	if c.Export.Y > c.Export.Height {
		return errors.NewInvalidConfigError("export.y must be <= export.height (%d), got %d", c.Export.Height, c.Export.Y)
	}

	for i, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.NewInvalidConfigError("server.allowed_origins[%d] cannot be empty", i)
		}
	}

	return nil
}

// configKey turns "Config.export.width" into "export.width"
func configKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
