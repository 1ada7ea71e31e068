package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type stsAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

// SDKSTSClient implements STSClient using AWS SDK v2
type SDKSTSClient struct {
	client stsAPI
}

// NewSDKSTSClient creates a new STS client using the provided AWS config
func NewSDKSTSClient(cfg aws.Config) *SDKSTSClient {
	return &SDKSTSClient{
		client: sts.NewFromConfig(cfg),
	}
}

func (c *SDKSTSClient) AssumeRole(ctx context.Context, roleArn, sessionName string) (*Credentials, error) {
	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleArn),
		RoleSessionName: aws.String(sessionName),
	}

	result, err := c.client.AssumeRole(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to assume role %s: %w", roleArn, ClassifyError(err))
	}
	if result.Credentials == nil {
		return nil, fmt.Errorf("assume role %s returned no credentials", roleArn)
	}

	return &Credentials{
		AccessKeyID:     aws.ToString(result.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(result.Credentials.SecretAccessKey),
		SessionToken:    aws.ToString(result.Credentials.SessionToken),
		Expiration:      aws.ToTime(result.Credentials.Expiration),
	}, nil
}
