package aws

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

var accountIdPattern = regexp.MustCompile(`^[0-9]{12}$`)

// CrossAccountSessionName identifies sessions created for cross-account zone registration
const CrossAccountSessionName = "RegisterDnsZoneCrossAccount"

// STSClient defines the interface for STS operations
type STSClient interface {
	// AssumeRole returns temporary credentials for the given role
	AssumeRole(ctx context.Context, roleArn, sessionName string) (*Credentials, error)
}

// Credentials are short-lived security credentials from an assumed role.
// They are never cached; Expiration is informational.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// RoleARN builds the IAM role ARN for roleName in accountId
func RoleARN(accountId, roleName string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountId, roleName)
}

// IsAccountId reports whether s is a 12-digit AWS account ID
func IsAccountId(s string) bool {
	return accountIdPattern.MatchString(s)
}
