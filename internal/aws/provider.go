package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// ClientProvider hands out the Route53 client for one invocation
type ClientProvider interface {
	Route53(ctx context.Context) (Route53Client, error)
}

// LoadConfig loads the ambient AWS configuration. The SDK retryer is limited
// to a single attempt; retry policy belongs to the caller's framework.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMaxAttempts(1),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// AmbientClientProvider uses the caller's own identity
type AmbientClientProvider struct {
	Client Route53Client
}

// NewAmbientClientProvider creates a provider backed by a single SDK client
func NewAmbientClientProvider(cfg aws.Config) *AmbientClientProvider {
	return &AmbientClientProvider{Client: NewSDKRoute53Client(cfg)}
}

func (p *AmbientClientProvider) Route53(ctx context.Context) (Route53Client, error) {
	return p.Client, nil
}

// CrossAccountClientProvider assumes RoleName in AccountId on every call and
// returns a Route53 client scoped to the resulting session.
type CrossAccountClientProvider struct {
	STS        STSClient
	BaseConfig aws.Config
	AccountId  string
	RoleName   string

	// NewClient builds the Route53 client from the scoped config.
	// Defaults to NewSDKRoute53Client.
	NewClient func(cfg aws.Config) Route53Client
}

// NewCrossAccountClientProvider creates a provider that uses STS from cfg
func NewCrossAccountClientProvider(cfg aws.Config, accountId, roleName string) *CrossAccountClientProvider {
	return &CrossAccountClientProvider{
		STS:        NewSDKSTSClient(cfg),
		BaseConfig: cfg,
		AccountId:  accountId,
		RoleName:   roleName,
	}
}

func (p *CrossAccountClientProvider) Route53(ctx context.Context) (Route53Client, error) {
	return p.BuildScopedClient(ctx, p.AccountId, p.RoleName)
}

// AssumeRole obtains fresh credentials for roleName in accountId
func (p *CrossAccountClientProvider) AssumeRole(ctx context.Context, accountId, roleName string) (*Credentials, error) {
	logger := log.FromContext(ctx)

	if errs := validateRoleTarget(accountId, roleName); len(errs) > 0 {
		return nil, fmt.Errorf("invalid cross-account role target: %w", errs.ToAggregate())
	}

	roleArn := RoleARN(accountId, roleName)
	creds, err := p.STS.AssumeRole(ctx, roleArn, CrossAccountSessionName)
	if err != nil {
		logger.Error(err, "Failed to assume cross-account role", "roleArn", roleArn)
		return nil, err
	}

	logger.V(1).Info("Assumed cross-account role", "roleArn", roleArn, "expiration", creds.Expiration)
	return creds, nil
}

// BuildScopedClient returns a Route53 client authenticated only with the
// assumed role's credentials. There is no fallback to the caller's identity.
func (p *CrossAccountClientProvider) BuildScopedClient(ctx context.Context, accountId, roleName string) (Route53Client, error) {
	creds, err := p.AssumeRole(ctx, accountId, roleName)
	if err != nil {
		return nil, err
	}

	cfg := p.BaseConfig.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)

	if p.NewClient != nil {
		return p.NewClient(cfg), nil
	}
	return NewSDKRoute53Client(cfg), nil
}

func validateRoleTarget(accountId, roleName string) field.ErrorList {
	var errs field.ErrorList
	if accountId == "" {
		errs = append(errs, field.Required(field.NewPath("accountId"), ""))
	} else if !IsAccountId(accountId) {
		errs = append(errs, field.Invalid(field.NewPath("accountId"), accountId, "must be a 12-digit account ID"))
	}
	if roleName == "" {
		errs = append(errs, field.Required(field.NewPath("roleName"), ""))
	}
	return errs
}
