package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/michelfeldheim/register-dns-zone/internal/zone"
)

// DataChangeId is the custom resource attribute holding the Route53 change ID
const DataChangeId = "ChangeId"

// Handler receives CloudFormation custom resource events wrapped in SNS
// notifications and reconciles the zone's NS record in the root zone.
type Handler struct {
	Reconciler  *zone.Reconciler
	ServiceName string
	Logger      logr.Logger

	// initErr is reported for every event when startup failed
	initErr error

	// respond wraps Dispatch with the response sent back to CloudFormation
	respond func(cfn.CustomResourceFunction) cfn.CustomResourceLambdaFunction
}

// New creates a Handler for a fully initialized process
func New(reconciler *zone.Reconciler, serviceName string, logger logr.Logger) *Handler {
	return &Handler{
		Reconciler:  reconciler,
		ServiceName: serviceName,
		Logger:      logger,
		respond:     cfn.LambdaWrap,
	}
}

// NewFailed creates a Handler that fails every event with initErr, so
// CloudFormation is told about the broken deployment instead of timing out.
func NewFailed(initErr error, serviceName string, logger logr.Logger) *Handler {
	h := New(nil, serviceName, logger)
	h.initErr = initErr
	return h
}

// HandleSNS is the Lambda entrypoint. Records are handled in order, each
// to completion before the next.
func (h *Handler) HandleSNS(ctx context.Context, event events.SNSEvent) error {
	logger := h.Logger.WithValues("service", h.ServiceName)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithValues("requestId", lc.AwsRequestID)
	}
	ctx = log.IntoContext(ctx, logger)

	logger.Info("Event received", "records", len(event.Records))

	for _, record := range event.Records {
		var message cfn.Event
		if err := json.Unmarshal([]byte(record.SNS.Message), &message); err != nil {
			logger.Error(err, "Failed to decode event message", "messageId", record.SNS.MessageID)
			return fmt.Errorf("failed to decode SNS message %s: %w", record.SNS.MessageID, err)
		}

		logger.Info("Event message received",
			"requestType", message.RequestType,
			"requestId", message.RequestID,
			"stackId", message.StackID,
			"logicalResourceId", message.LogicalResourceID,
			"physicalResourceId", message.PhysicalResourceID,
			"resourceProperties", message.ResourceProperties)

		if _, err := h.respond(h.Dispatch)(ctx, message); err != nil {
			logger.Error(err, "Failed to send custom resource response", "logicalResourceId", message.LogicalResourceID)
			return fmt.Errorf("failed to send response for %s: %w", message.LogicalResourceID, err)
		}
	}

	return nil
}

// Dispatch routes a custom resource event to the reconciler. The returned
// physical resource ID is the Route53 change ID of the upsert that created
// the record under its current zone name.
func (h *Handler) Dispatch(ctx context.Context, event cfn.Event) (physicalResourceId string, data map[string]interface{}, err error) {
	logger := log.FromContext(ctx).WithValues("requestType", event.RequestType, "logicalResourceId", event.LogicalResourceID)
	ctx = log.IntoContext(ctx, logger)
	physicalResourceId = event.PhysicalResourceID

	defer func() {
		if err != nil {
			logger.Error(err, "Custom resource request failed")
		}
	}()

	if h.initErr != nil {
		return physicalResourceId, nil, fmt.Errorf("handler failed to initialize: %w", h.initErr)
	}

	req, err := zone.ParseRequest(event.ResourceProperties)
	if err != nil {
		return physicalResourceId, nil, err
	}

	switch event.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
		var changeId string
		changeId, err = h.Reconciler.Upsert(ctx, req)
		if err != nil {
			return physicalResourceId, nil, err
		}
		// A new physical ID makes CloudFormation send a cleanup Delete with the
		// old properties. That is only wanted when the record moved to another
		// name; otherwise the cleanup would delete the record just upserted.
		if event.RequestType == cfn.RequestCreate || physicalResourceId == "" || zoneRenamed(event, req) {
			physicalResourceId = changeId
		}
		return physicalResourceId, map[string]interface{}{DataChangeId: changeId}, nil

	case cfn.RequestDelete:
		err = h.Reconciler.Delete(ctx, req)
		return physicalResourceId, nil, err

	default:
		return physicalResourceId, nil, fmt.Errorf("unsupported request type %q", event.RequestType)
	}
}

// zoneRenamed reports whether an update moves the NS record to a different
// zone name. Names compare case-insensitively, as Route53 does.
func zoneRenamed(event cfn.Event, req zone.Request) bool {
	oldName, ok := event.OldResourceProperties[zone.PropertyZoneName].(string)
	if !ok || strings.TrimSpace(oldName) == "" {
		return false
	}
	return !strings.EqualFold(zone.FQDN(oldName), zone.FQDN(req.ZoneName))
}
