package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/smithy-go"
	"k8s.io/apimachinery/pkg/util/sets"
)

// MockChange records one ChangeRecordSet call seen by the mock
type MockChange struct {
	ZoneId   string
	Identity string
	Batch    ChangeBatch
}

type mockRoute53Backend struct {
	mu      sync.Mutex
	zones   map[string]map[string]RecordSet // zoneId -> name:type -> record set
	changes []MockChange
	nextId  int
	err     error
}

// MockRoute53Client is an in-memory Route53 for testing. Clients obtained
// through As share the same zones and record which identity made each change.
type MockRoute53Client struct {
	Identity string
	backend  *mockRoute53Backend
}

func NewMockRoute53Client() *MockRoute53Client {
	return &MockRoute53Client{
		Identity: "ambient",
		backend: &mockRoute53Backend{
			zones: make(map[string]map[string]RecordSet),
		},
	}
}

// As returns a client on the same backend acting as identity
func (m *MockRoute53Client) As(identity string) *MockRoute53Client {
	return &MockRoute53Client{Identity: identity, backend: m.backend}
}

// CreateHostedZone registers an empty hosted zone and returns its ID
func (m *MockRoute53Client) CreateHostedZone(name string) string {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()

	zoneId := fmt.Sprintf("Z%06d%s", len(m.backend.zones)+1, strings.ToUpper(strings.ReplaceAll(strings.TrimSuffix(name, "."), ".", "")))
	m.backend.zones[zoneId] = make(map[string]RecordSet)
	return zoneId
}

// FailWith makes every subsequent call fail with err
func (m *MockRoute53Client) FailWith(err error) {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	m.backend.err = err
}

// Changes returns every change submitted so far
func (m *MockRoute53Client) Changes() []MockChange {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	return append([]MockChange(nil), m.backend.changes...)
}

// RecordSets returns the record sets of a zone sorted by name and type
func (m *MockRoute53Client) RecordSets(zoneId string) []RecordSet {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()

	var out []RecordSet
	for _, rs := range m.backend.zones[normalizeZoneId(zoneId)] {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func (m *MockRoute53Client) ChangeRecordSet(ctx context.Context, zoneId string, batch ChangeBatch) (*ChangeInfo, error) {
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	b.changes = append(b.changes, MockChange{ZoneId: zoneId, Identity: m.Identity, Batch: batch})
	if b.err != nil {
		return nil, b.err
	}

	zone, ok := b.zones[normalizeZoneId(zoneId)]
	if !ok {
		return nil, mockAPIError(batch.Action, "NoSuchHostedZone", fmt.Sprintf("No hosted zone found with ID: %s", zoneId))
	}

	record := batch.Record
	record.Name = canonicalName(record.Name)
	record.Values = append([]string(nil), record.Values...)
	key := record.Name + ":" + record.Type

	switch batch.Action {
	case ChangeActionUpsert:
		zone[key] = record
	case ChangeActionDelete:
		existing, ok := zone[key]
		if !ok {
			return nil, mockAPIError(batch.Action, "InvalidChangeBatch", fmt.Sprintf(
				"[Tried to delete resource record set [name='%s', type='%s'] but it was not found]", record.Name, record.Type))
		}
		if existing.TTL != record.TTL || !sameValues(existing.Values, record.Values) {
			return nil, mockAPIError(batch.Action, "InvalidChangeBatch", fmt.Sprintf(
				"[Tried to delete resource record set [name='%s', type='%s'] but the values provided do not match the current values]", record.Name, record.Type))
		}
		delete(zone, key)
	default:
		return nil, fmt.Errorf("unsupported change action %q", batch.Action)
	}

	b.nextId++
	return &ChangeInfo{
		Id:          fmt.Sprintf("/change/C%012d", b.nextId),
		Status:      "PENDING",
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (m *MockRoute53Client) GetRecordSet(ctx context.Context, zoneId string, name, recordType string) (*RecordSet, error) {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()

	zone, ok := m.backend.zones[normalizeZoneId(zoneId)]
	if !ok {
		return nil, fmt.Errorf("%w: no hosted zone found with ID: %s", ErrNotFound, zoneId)
	}
	record, ok := zone[canonicalName(name)+":"+recordType]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// MockSTSClient hands out deterministic credentials per role
type MockSTSClient struct {
	// Roles lists the role ARNs that may be assumed. Any other ARN is denied.
	Roles map[string]bool

	mu    sync.Mutex
	calls []string
}

func NewMockSTSClient(roleArns ...string) *MockSTSClient {
	m := &MockSTSClient{Roles: make(map[string]bool)}
	for _, arn := range roleArns {
		m.Roles[arn] = true
	}
	return m
}

// Calls returns the role ARNs passed to AssumeRole so far
func (m *MockSTSClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockSTSClient) AssumeRole(ctx context.Context, roleArn, sessionName string) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, roleArn)
	if !m.Roles[roleArn] {
		return nil, fmt.Errorf("%w: not authorized to perform sts:AssumeRole on resource %s", ErrUnauthorized, roleArn)
	}
	n := len(m.calls)
	return &Credentials{
		AccessKeyID:     fmt.Sprintf("ASIA%s%04d", sessionName, n),
		SecretAccessKey: fmt.Sprintf("secret-%d", n),
		SessionToken:    fmt.Sprintf("token-%d", n),
		Expiration:      time.Now().Add(time.Hour),
	}, nil
}

// mockAPIError fails the way SDKRoute53Client does for a Route53 API error
func mockAPIError(action ChangeAction, code, message string) error {
	apiErr := &smithy.GenericAPIError{Code: code, Message: message, Fault: smithy.FaultClient}
	return fmt.Errorf("failed to %s record set: %w", strings.ToLower(string(action)), ClassifyError(apiErr))
}

// canonicalName mirrors Route53 treating every name as fully qualified
func canonicalName(name string) string {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return name
}

func sameValues(a, b []string) bool {
	return len(a) == len(b) && sets.New(a...).Equal(sets.New(b...))
}
