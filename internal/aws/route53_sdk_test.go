package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/smithy-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type fakeRoute53API struct {
	changeInput *route53.ChangeResourceRecordSetsInput
	changeOut   *route53.ChangeResourceRecordSetsOutput
	listInput   *route53.ListResourceRecordSetsInput
	listOut     *route53.ListResourceRecordSetsOutput
	err         error
}

func (f *fakeRoute53API) ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	f.changeInput = params
	if f.err != nil {
		return nil, f.err
	}
	return f.changeOut, nil
}

func (f *fakeRoute53API) ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	f.listInput = params
	if f.err != nil {
		return nil, f.err
	}
	return f.listOut, nil
}

// ignore the SDK's internal noSmithyDocumentSerde markers
var sdkOpts = cmpopts.IgnoreUnexported(
	route53.ChangeResourceRecordSetsInput{},
	types.ChangeBatch{},
	types.Change{},
	types.ResourceRecordSet{},
	types.ResourceRecord{},
)

func TestSDKRoute53Client_ChangeRecordSet(t *testing.T) {
	submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		batch ChangeBatch
		want  *route53.ChangeResourceRecordSetsInput
	}{
		{
			name: "upsert with comment",
			batch: ChangeBatch{
				Comment: "Upsert NS record for the zone dev.example.com.",
				Action:  ChangeActionUpsert,
				Record:  RecordSet{Name: "dev.example.com.", Type: "NS", TTL: 300, Values: []string{"ns1.example.net", "ns2.example.net"}},
			},
			want: &route53.ChangeResourceRecordSetsInput{
				HostedZoneId: aws.String("Z123456"),
				ChangeBatch: &types.ChangeBatch{
					Comment: aws.String("Upsert NS record for the zone dev.example.com."),
					Changes: []types.Change{{
						Action: types.ChangeActionUpsert,
						ResourceRecordSet: &types.ResourceRecordSet{
							Name: aws.String("dev.example.com."),
							Type: types.RRTypeNs,
							TTL:  aws.Int64(300),
							ResourceRecords: []types.ResourceRecord{
								{Value: aws.String("ns1.example.net")},
								{Value: aws.String("ns2.example.net")},
							},
						},
					}},
				},
			},
		},
		{
			name: "delete without comment",
			batch: ChangeBatch{
				Action: ChangeActionDelete,
				Record: RecordSet{Name: "dev.example.com.", Type: "NS", TTL: 300, Values: []string{"ns1.example.net"}},
			},
			want: &route53.ChangeResourceRecordSetsInput{
				HostedZoneId: aws.String("Z123456"),
				ChangeBatch: &types.ChangeBatch{
					Changes: []types.Change{{
						Action: types.ChangeActionDelete,
						ResourceRecordSet: &types.ResourceRecordSet{
							Name: aws.String("dev.example.com."),
							Type: types.RRTypeNs,
							TTL:  aws.Int64(300),
							ResourceRecords: []types.ResourceRecord{
								{Value: aws.String("ns1.example.net")},
							},
						},
					}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeRoute53API{
				changeOut: &route53.ChangeResourceRecordSetsOutput{
					ChangeInfo: &types.ChangeInfo{
						Id:          aws.String("/change/C2682N5HXP0BZ4"),
						Status:      types.ChangeStatusPending,
						SubmittedAt: aws.Time(submitted),
					},
				},
			}
			client := &SDKRoute53Client{client: api}

			info, err := client.ChangeRecordSet(context.Background(), "/hostedzone/Z123456", tt.batch)
			if err != nil {
				t.Fatalf("ChangeRecordSet() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, api.changeInput, sdkOpts); diff != "" {
				t.Errorf("ChangeResourceRecordSets input mismatch (-want +got):\n%s", diff)
			}

			want := &ChangeInfo{Id: "/change/C2682N5HXP0BZ4", Status: "PENDING", SubmittedAt: submitted}
			if diff := cmp.Diff(want, info); diff != "" {
				t.Errorf("ChangeInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSDKRoute53Client_ChangeRecordSet_ClassifiesErrors(t *testing.T) {
	deleteBatch := ChangeBatch{
		Action: ChangeActionDelete,
		Record: RecordSet{Name: "dev.example.com.", Type: "NS", TTL: 300, Values: []string{"ns1.example.net"}},
	}

	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{
			name:     "missing hosted zone",
			err:      &smithy.GenericAPIError{Code: "NoSuchHostedZone", Message: "No hosted zone found with ID: ZMISSING"},
			wantKind: ErrNotFound,
		},
		{
			name:     "delete of missing record",
			err:      &smithy.GenericAPIError{Code: "InvalidChangeBatch", Message: "[Tried to delete resource record set [name='dev.example.com.', type='NS'] but it was not found]"},
			wantKind: ErrNotFound,
		},
		{
			name:     "delete with mismatched values",
			err:      &smithy.GenericAPIError{Code: "InvalidChangeBatch", Message: "[Tried to delete resource record set [name='dev.example.com.', type='NS'] but the values provided do not match the current values]"},
			wantKind: ErrNotFound,
		},
		{
			name:     "connection reset",
			err:      errors.New("read tcp 10.0.0.1:443: connection reset by peer"),
			wantKind: ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &SDKRoute53Client{client: &fakeRoute53API{err: tt.err}}

			_, err := client.ChangeRecordSet(context.Background(), "Z123456", deleteBatch)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("error = %v, want %v", err, tt.wantKind)
			}
			if !errors.Is(err, tt.err) {
				t.Error("SDK error should stay in the chain")
			}
		})
	}
}

func TestSDKRoute53Client_GetRecordSet(t *testing.T) {
	tests := []struct {
		name   string
		output *route53.ListResourceRecordSetsOutput
		want   *RecordSet
	}{
		{
			name: "matching record set",
			output: &route53.ListResourceRecordSetsOutput{
				ResourceRecordSets: []types.ResourceRecordSet{{
					Name: aws.String("dev.example.com."),
					Type: types.RRTypeNs,
					TTL:  aws.Int64(300),
					ResourceRecords: []types.ResourceRecord{
						{Value: aws.String("ns1.example.net")},
						{Value: aws.String("ns2.example.net")},
					},
				}},
			},
			want: &RecordSet{Name: "dev.example.com.", Type: "NS", TTL: 300, Values: []string{"ns1.example.net", "ns2.example.net"}},
		},
		{
			name: "next record in zone is a different name",
			output: &route53.ListResourceRecordSetsOutput{
				ResourceRecordSets: []types.ResourceRecordSet{{
					Name: aws.String("prod.example.com."),
					Type: types.RRTypeNs,
				}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeRoute53API{listOut: tt.output}
			client := &SDKRoute53Client{client: api}

			got, err := client.GetRecordSet(context.Background(), "Z123456", "dev.example.com", "NS")
			if err != nil {
				t.Fatalf("GetRecordSet() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GetRecordSet() mismatch (-want +got):\n%s", diff)
			}
			if aws.ToInt32(api.listInput.MaxItems) != 1 {
				t.Errorf("MaxItems = %v, want 1", aws.ToInt32(api.listInput.MaxItems))
			}
		})
	}
}
