package aws

import (
	"context"
	"time"
)

// Route53Client defines the interface for Route53 operations
type Route53Client interface {
	// ChangeRecordSet submits a single-change batch against a hosted zone
	ChangeRecordSet(ctx context.Context, zoneId string, batch ChangeBatch) (*ChangeInfo, error)

	// GetRecordSet retrieves a record set from Route53, nil if it does not exist
	GetRecordSet(ctx context.Context, zoneId string, name, recordType string) (*RecordSet, error)
}

// ChangeAction is the mutation applied to a record set
type ChangeAction string

const (
	ChangeActionUpsert ChangeAction = "UPSERT"
	ChangeActionDelete ChangeAction = "DELETE"
)

// ChangeBatch describes one record set mutation
type ChangeBatch struct {
	Comment string // optional
	Action  ChangeAction
	Record  RecordSet
}

// RecordSet represents a Route53 resource record set
type RecordSet struct {
	Name   string
	Type   string // NS, CNAME, etc.
	TTL    int64
	Values []string
}

// ChangeInfo is the service's view of a submitted change batch
type ChangeInfo struct {
	Id          string
	Status      string // PENDING or INSYNC
	SubmittedAt time.Time
}
