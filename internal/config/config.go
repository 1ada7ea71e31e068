package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/michelfeldheim/register-dns-zone/internal/aws"
)

// Environment variables read at startup
const (
	EnvRootZoneId           = "DNS_ROOT_ZONE_ID"
	EnvCrossAccountRoleName = "CROSS_ACCOUNT_IAM_ROLE_NAME"
	EnvRootZoneAccountId    = "DNS_ROOT_ZONE_ACCOUNT_ID"
	EnvServiceName          = "SERVICE_NAME"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogDevelopment       = "LOG_DEVELOPMENT"
	EnvRegion               = "AWS_REGION"
	EnvConfigPath           = "REGISTER_DNS_ZONE_CONFIG"
)

const (
	DefaultServiceName = "RegisterDnsZone"
	DefaultLogLevel    = "info"
)

var logLevels = sets.New("debug", "info", "warn", "error")

// Config is the process configuration. It is loaded once at startup and
// passed by value afterwards.
type Config struct {
	RootZoneId     string
	CrossAccount   *CrossAccount // nil when the caller's own identity is used
	ServiceName    string
	LogLevel       string
	LogDevelopment bool
	Region         string
}

// CrossAccount names the role assumed in the account owning the root zone
type CrossAccount struct {
	RoleName  string
	AccountId string
}

// ConfigurationError lists every missing or invalid setting
type ConfigurationError struct {
	Errors field.ErrorList
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Errors.ToAggregate())
}

// Options control how configuration is loaded
type Options struct {
	// RequireCrossAccount makes the cross-account settings mandatory
	RequireCrossAccount bool

	// ConfigPath overrides REGISTER_DNS_ZONE_CONFIG
	ConfigPath string

	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// fileConfig is the optional YAML configuration file. Environment
// variables take precedence over its values.
type fileConfig struct {
	RootZoneId           string `yaml:"rootZoneId"`
	RootZoneAccountId    string `yaml:"rootZoneAccountId"`
	CrossAccountRoleName string `yaml:"crossAccountRoleName"`
	ServiceName          string `yaml:"serviceName"`
	LogLevel             string `yaml:"logLevel"`
	LogDevelopment       bool   `yaml:"logDevelopment"`
	Region               string `yaml:"region"`
}

// Load reads the configuration from the environment and the optional YAML file
func Load(opts Options) (Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var errs field.ErrorList
	var fc fileConfig

	path := opts.ConfigPath
	if path == "" {
		path = getenv(EnvConfigPath)
	}
	if path != "" {
		if err := readFile(path, &fc); err != nil {
			errs = append(errs, field.Invalid(field.NewPath(EnvConfigPath), path, err.Error()))
		}
	}

	override(&fc.RootZoneId, getenv(EnvRootZoneId))
	override(&fc.RootZoneAccountId, getenv(EnvRootZoneAccountId))
	override(&fc.CrossAccountRoleName, getenv(EnvCrossAccountRoleName))
	override(&fc.ServiceName, getenv(EnvServiceName))
	override(&fc.LogLevel, getenv(EnvLogLevel))
	override(&fc.Region, getenv(EnvRegion))
	if v := getenv(EnvLogDevelopment); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, field.Invalid(field.NewPath(EnvLogDevelopment), v, "must be a boolean"))
		}
		fc.LogDevelopment = dev
	}

	cfg := Config{
		RootZoneId:     fc.RootZoneId,
		ServiceName:    fc.ServiceName,
		LogLevel:       strings.ToLower(fc.LogLevel),
		LogDevelopment: fc.LogDevelopment,
		Region:         fc.Region,
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.RootZoneId == "" {
		errs = append(errs, field.Required(field.NewPath(EnvRootZoneId), "must be provided"))
	}
	if !logLevels.Has(cfg.LogLevel) {
		errs = append(errs, field.NotSupported(field.NewPath(EnvLogLevel), cfg.LogLevel, sets.List(logLevels)))
	}

	if opts.RequireCrossAccount || fc.CrossAccountRoleName != "" || fc.RootZoneAccountId != "" {
		cfg.CrossAccount = &CrossAccount{
			RoleName:  fc.CrossAccountRoleName,
			AccountId: fc.RootZoneAccountId,
		}
		if fc.CrossAccountRoleName == "" {
			errs = append(errs, field.Required(field.NewPath(EnvCrossAccountRoleName), "must be provided"))
		}
		if fc.RootZoneAccountId == "" {
			errs = append(errs, field.Required(field.NewPath(EnvRootZoneAccountId), "must be provided"))
		} else if !aws.IsAccountId(fc.RootZoneAccountId) {
			errs = append(errs, field.Invalid(field.NewPath(EnvRootZoneAccountId), fc.RootZoneAccountId, "must be a 12-digit account ID"))
		}
	}

	if len(errs) > 0 {
		return Config{}, &ConfigurationError{Errors: errs}
	}
	return cfg, nil
}

func readFile(path string, fc *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
