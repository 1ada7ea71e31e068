package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/aws/smithy-go"
)

type fakeSTSAPI struct {
	input *sts.AssumeRoleInput
	out   *sts.AssumeRoleOutput
	err   error
}

func (f *fakeSTSAPI) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestRoleARN(t *testing.T) {
	got := RoleARN("999999999999", "RegisterDnsZoneCrossAccountRole")
	want := "arn:aws:iam::999999999999:role/RegisterDnsZoneCrossAccountRole"
	if got != want {
		t.Errorf("RoleARN() = %v, want %v", got, want)
	}
}

func TestIsAccountId(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "999999999999", want: true},
		{in: "012345678901", want: true},
		{in: "99999999999", want: false},
		{in: "9999999999999", want: false},
		{in: "99999999999a", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		if got := IsAccountId(tt.in); got != tt.want {
			t.Errorf("IsAccountId(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSDKSTSClient_AssumeRole(t *testing.T) {
	expiration := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
	api := &fakeSTSAPI{
		out: &sts.AssumeRoleOutput{
			Credentials: &ststypes.Credentials{
				AccessKeyId:     aws.String("ASIAEXAMPLE"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
				Expiration:      aws.Time(expiration),
			},
		},
	}
	client := &SDKSTSClient{client: api}
	roleArn := RoleARN("999999999999", "RegisterDnsZone")

	creds, err := client.AssumeRole(context.Background(), roleArn, CrossAccountSessionName)
	if err != nil {
		t.Fatalf("AssumeRole() error = %v", err)
	}

	if aws.ToString(api.input.RoleArn) != roleArn {
		t.Errorf("RoleArn = %v, want %v", aws.ToString(api.input.RoleArn), roleArn)
	}
	if aws.ToString(api.input.RoleSessionName) != CrossAccountSessionName {
		t.Errorf("RoleSessionName = %v, want %v", aws.ToString(api.input.RoleSessionName), CrossAccountSessionName)
	}
	if creds.AccessKeyID != "ASIAEXAMPLE" || creds.SecretAccessKey != "secret" || creds.SessionToken != "token" {
		t.Errorf("unexpected credentials %+v", creds)
	}
	if !creds.Expiration.Equal(expiration) {
		t.Errorf("Expiration = %v, want %v", creds.Expiration, expiration)
	}
}

func TestSDKSTSClient_AssumeRole_Denied(t *testing.T) {
	api := &fakeSTSAPI{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "not authorized to perform sts:AssumeRole"}}
	client := &SDKSTSClient{client: api}

	_, err := client.AssumeRole(context.Background(), RoleARN("999999999999", "Missing"), CrossAccountSessionName)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}
