package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/smithy-go"
)

// Error kinds reported by the Route53 and STS clients. Callers match them
// with errors.Is; the original SDK error stays in the chain.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrThrottled    = errors.New("throttled")
	ErrTransient    = errors.New("transient service error")
)

// transportRetryables recognizes connection resets, dial failures and timeouts
var transportRetryables = retry.IsErrorRetryables(retry.DefaultRetryables)

// Route53 InvalidChangeBatch messages for a DELETE that matches no record set
var recordMismatchMessages = []string{
	"not found",
	"do not match the current values",
}

// ClassifyError tags an SDK error with one of the error kinds above.
// Errors that don't map to a kind are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var kind error
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		kind = classifyAPIError(apiErr)
	}
	if kind == nil && transportRetryables.IsErrorRetryable(err) == aws.TrueTernary {
		kind = ErrTransient
	}

	if kind == nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func classifyAPIError(apiErr smithy.APIError) error {
	var kind error
	switch apiErr.ErrorCode() {
	case "NoSuchHostedZone", "NoSuchChange", "HostedZoneNotFound":
		kind = ErrNotFound
	case "InvalidChangeBatch":
		// Route53 reports a DELETE of a missing or mismatched record set this way
		msg := strings.ToLower(apiErr.ErrorMessage())
		for _, m := range recordMismatchMessages {
			if strings.Contains(msg, m) {
				kind = ErrNotFound
			}
		}
	case "AccessDenied", "AccessDeniedException", "InvalidClientTokenId", "ExpiredToken",
		"ExpiredTokenException", "SignatureDoesNotMatch", "UnrecognizedClientException":
		kind = ErrUnauthorized
	case "Throttling", "ThrottlingException", "PriorRequestNotComplete", "RequestLimitExceeded",
		"TooManyRequestsException":
		kind = ErrThrottled
	case "ServiceUnavailable", "InternalFailure", "InternalError", "IDPCommunicationError":
		kind = ErrTransient
	default:
		if apiErr.ErrorFault() == smithy.FaultServer {
			kind = ErrTransient
		}
	}
	return kind
}
