package zone

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/register-dns-zone/internal/aws"
)

const (
	RecordType = "NS"
	RecordTTL  = int64(300)
)

// Reconciler keeps the NS delegation record of a child zone in sync with
// the root hosted zone.
type Reconciler struct {
	RootZoneId string
	Clients    aws.ClientProvider
}

// UpsertBatch builds the UPSERT change for req
func UpsertBatch(req Request) aws.ChangeBatch {
	zoneName := FQDN(req.ZoneName)
	return aws.ChangeBatch{
		Comment: fmt.Sprintf("Upsert NS record for the zone %s", zoneName),
		Action:  aws.ChangeActionUpsert,
		Record:  nsRecordSet(zoneName, req.NameServers),
	}
}

// DeleteBatch builds the DELETE change for req. The record set matches the
// one UpsertBatch produces for the same request, as Route53 only deletes
// exact matches.
func DeleteBatch(req Request) aws.ChangeBatch {
	return aws.ChangeBatch{
		Action: aws.ChangeActionDelete,
		Record: nsRecordSet(FQDN(req.ZoneName), req.NameServers),
	}
}

func nsRecordSet(name string, nameServers []string) aws.RecordSet {
	return aws.RecordSet{
		Name:   name,
		Type:   RecordType,
		TTL:    RecordTTL,
		Values: trimAll(nameServers),
	}
}

// Upsert creates or replaces the NS record for req.ZoneName and returns the
// Route53 change ID verbatim.
func (r *Reconciler) Upsert(ctx context.Context, req Request) (string, error) {
	logger := log.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return "", err
	}

	batch := UpsertBatch(req)
	logger.Info("Creating zone NS record",
		"zone_name", batch.Record.Name,
		"zone_id", r.RootZoneId,
		"nameservers", batch.Record.Values)

	info, err := r.submit(ctx, batch)
	if err != nil {
		return "", err
	}
	return info.Id, nil
}

// Delete removes the NS record for req.ZoneName. A record that doesn't
// exactly match req yields aws.ErrNotFound.
func (r *Reconciler) Delete(ctx context.Context, req Request) error {
	logger := log.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return err
	}

	batch := DeleteBatch(req)
	logger.Info("Deleting zone NS record",
		"zone_name", batch.Record.Name,
		"zone_id", r.RootZoneId,
		"nameservers", batch.Record.Values)

	_, err := r.submit(ctx, batch)
	return err
}

// Lookup returns the NS record currently delegating zoneName, or nil when
// the root zone has none.
func (r *Reconciler) Lookup(ctx context.Context, zoneName string) (*aws.RecordSet, error) {
	if strings.TrimSpace(zoneName) == "" {
		return nil, &ValidationError{Errors: field.ErrorList{
			field.Required(propertiesPath.Child(PropertyZoneName), "ZoneName must be provided"),
		}}
	}

	client, err := r.Clients.Route53(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetRecordSet(ctx, r.RootZoneId, FQDN(zoneName), RecordType)
}

func (r *Reconciler) submit(ctx context.Context, batch aws.ChangeBatch) (*aws.ChangeInfo, error) {
	logger := log.FromContext(ctx)

	client, err := r.Clients.Route53(ctx)
	if err != nil {
		return nil, err
	}

	info, err := client.ChangeRecordSet(ctx, r.RootZoneId, batch)
	if err != nil {
		return nil, err
	}

	logger.Info("Change info", "id", info.Id, "status", info.Status, "submittedAt", info.SubmittedAt)
	return info, nil
}
