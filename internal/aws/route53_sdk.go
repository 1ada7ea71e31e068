package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// route53API is the subset of the Route53 SDK client used here
type route53API interface {
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
}

// SDKRoute53Client implements Route53Client using AWS SDK v2
type SDKRoute53Client struct {
	client route53API
}

// NewSDKRoute53Client creates a new Route53 client using the provided AWS config
func NewSDKRoute53Client(cfg aws.Config) *SDKRoute53Client {
	return &SDKRoute53Client{
		client: route53.NewFromConfig(cfg),
	}
}

func (c *SDKRoute53Client) ChangeRecordSet(ctx context.Context, zoneId string, batch ChangeBatch) (*ChangeInfo, error) {
	resourceRecords := make([]types.ResourceRecord, 0, len(batch.Record.Values))
	for _, v := range batch.Record.Values {
		resourceRecords = append(resourceRecords, types.ResourceRecord{Value: aws.String(v)})
	}

	changeBatch := &types.ChangeBatch{
		Changes: []types.Change{
			{
				Action: types.ChangeAction(batch.Action),
				ResourceRecordSet: &types.ResourceRecordSet{
					Name:            aws.String(batch.Record.Name),
					Type:            types.RRType(batch.Record.Type),
					TTL:             aws.Int64(batch.Record.TTL),
					ResourceRecords: resourceRecords,
				},
			},
		},
	}
	if batch.Comment != "" {
		changeBatch.Comment = aws.String(batch.Comment)
	}

	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(normalizeZoneId(zoneId)),
		ChangeBatch:  changeBatch,
	}

	result, err := c.client.ChangeResourceRecordSets(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to %s record set: %w", strings.ToLower(string(batch.Action)), ClassifyError(err))
	}
	if result.ChangeInfo == nil {
		return nil, fmt.Errorf("change response for %s is missing ChangeInfo", batch.Record.Name)
	}

	return &ChangeInfo{
		Id:          aws.ToString(result.ChangeInfo.Id),
		Status:      string(result.ChangeInfo.Status),
		SubmittedAt: aws.ToTime(result.ChangeInfo.SubmittedAt),
	}, nil
}

func (c *SDKRoute53Client) GetRecordSet(ctx context.Context, zoneId, name, recordType string) (*RecordSet, error) {
	input := &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(normalizeZoneId(zoneId)),
		StartRecordName: aws.String(name),
		StartRecordType: types.RRType(recordType),
		MaxItems:        aws.Int32(1),
	}

	result, err := c.client.ListResourceRecordSets(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", ClassifyError(err))
	}

	for _, rrs := range result.ResourceRecordSets {
		// Route53 returns names with trailing dot
		recordName := aws.ToString(rrs.Name)
		if !strings.EqualFold(strings.TrimSuffix(recordName, "."), strings.TrimSuffix(name, ".")) ||
			string(rrs.Type) != recordType {
			continue
		}

		record := &RecordSet{
			Name: recordName,
			Type: string(rrs.Type),
			TTL:  aws.ToInt64(rrs.TTL),
		}
		for _, rr := range rrs.ResourceRecords {
			record.Values = append(record.Values, aws.ToString(rr.Value))
		}
		return record, nil
	}

	return nil, nil // Not found
}

// normalizeZoneId ensures the zone ID has the correct format
func normalizeZoneId(zoneId string) string {
	// Remove /hostedzone/ prefix if present
	zoneId = strings.TrimPrefix(zoneId, "/hostedzone/")
	return zoneId
}
