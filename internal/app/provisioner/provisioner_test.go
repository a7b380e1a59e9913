package provisioner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"aws-sqs-queue-provisioner/internal/pkg/observability/metrics"
	"aws-sqs-queue-provisioner/internal/pkg/queue"
)

const queueURL = "https://sqs.eu-west-1.amazonaws.com/123456789012/"

type response struct {
	url string
	err error
}

// recorder collects create calls and waits in call order.
type recorder struct {
	calls []string
}

type fakeClient struct {
	rec       *recorder
	responses map[string][]response
	created   []string
}

func (f *fakeClient) CreateQueue(_ context.Context, name string) (string, error) {
	f.rec.calls = append(f.rec.calls, "create:"+name)
	f.created = append(f.created, name)

	rs := f.responses[name]
	if len(rs) == 0 {
		return "", errors.New("unexpected create call")
	}
	r := rs[0]
	if len(rs) > 1 {
		f.responses[name] = rs[1:]
	}
	return r.url, r.err
}

func (f *fakeClient) GetQueueUrl(context.Context, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) DeleteQueue(context.Context, string) error {
	return errors.New("not used")
}

type fakeSleeper struct {
	rec    *recorder
	delays []time.Duration
	err    error
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.rec.calls = append(s.rec.calls, fmt.Sprintf("sleep:%s", d))
	s.delays = append(s.delays, d)
	return s.err
}

func newTestProvisioner(responses map[string][]response) (*Provisioner, *fakeClient, *fakeSleeper, *recorder) {
	rec := &recorder{}
	client := &fakeClient{rec: rec, responses: responses}
	sleeper := &fakeSleeper{rec: rec}
	return New(client, sleeper, zap.NewNop()), client, sleeper, rec
}

func deletedRecently() response {
	return response{err: fmt.Errorf("%w: api error", queue.ErrDeletedRecently)}
}

func TestProvisionSucceedsAfterTransientConflicts(t *testing.T) {
	p, client, sleeper, rec := newTestProvisioner(map[string][]response{
		"orders": {deletedRecently(), deletedRecently(), {url: queueURL + "orders"}},
	})

	handle, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 5 * time.Second, Delay: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, queue.Handle{Name: "orders", URL: queueURL + "orders"}, handle)
	assert.Len(t, client.created, 3)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.delays)
	assert.Equal(t, []string{
		"create:orders", "sleep:2s",
		"create:orders", "sleep:2s",
		"create:orders",
	}, rec.calls)
}

func TestProvisionAlreadyExists(t *testing.T) {
	p, client, sleeper, _ := newTestProvisioner(map[string][]response{
		"orders": {{err: fmt.Errorf("%w: api error", queue.ErrNameExists)}},
	})

	_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 5 * time.Second, Delay: time.Second})
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrTimedOut)
	assert.Contains(t, err.Error(), "queue orders already exists")
	assert.Len(t, client.created, 1)
	assert.Empty(t, sleeper.delays)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonAlreadyExists, perr.Reason)
	assert.Equal(t, "orders", perr.Queue)
}

func TestProvisionTimesOut(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		delay    time.Duration
		attempts int
		waits    int
	}{
		{name: "budget not a multiple of delay", timeout: 5 * time.Second, delay: 2 * time.Second, attempts: 3, waits: 3},
		{name: "budget exact multiple of delay", timeout: 4 * time.Second, delay: 2 * time.Second, attempts: 2, waits: 2},
		{name: "delay larger than budget", timeout: time.Second, delay: 3 * time.Second, attempts: 1, waits: 1},
		{name: "zero budget tries once", timeout: 0, delay: time.Second, attempts: 1, waits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, client, sleeper, _ := newTestProvisioner(map[string][]response{
				"orders": {deletedRecently()},
			})

			_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: tt.timeout, Delay: tt.delay})
			require.ErrorIs(t, err, ErrTimedOut)
			assert.ErrorIs(t, err, queue.ErrDeletedRecently)
			assert.Contains(t, err.Error(), "queue orders creation timed out")
			assert.Len(t, client.created, tt.attempts)
			assert.Len(t, sleeper.delays, tt.waits)
		})
	}
}

func TestProvisionInterrupted(t *testing.T) {
	p, client, sleeper, _ := newTestProvisioner(map[string][]response{
		"orders": {deletedRecently(), {url: queueURL + "orders"}},
	})
	sleeper.err = context.Canceled

	_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 5 * time.Second, Delay: 2 * time.Second})
	require.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "queue orders creation interrupted")
	assert.Len(t, client.created, 1)
	assert.Len(t, sleeper.delays, 1)
}

func TestProvisionCancelledDuringCreate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _, sleeper, _ := newTestProvisioner(map[string][]response{
		"orders": {{err: context.Canceled}},
	})

	_, err := p.Provision(ctx, Request{Name: "orders", Timeout: 5 * time.Second, Delay: time.Second})
	require.ErrorIs(t, err, ErrInterrupted)
	assert.Empty(t, sleeper.delays)
}

func TestProvisionTransportFailure(t *testing.T) {
	errDenied := errors.New("AccessDenied: not authorized")
	p, client, sleeper, _ := newTestProvisioner(map[string][]response{
		"orders": {{err: errDenied}},
	})

	_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 5 * time.Second, Delay: time.Second})
	require.ErrorIs(t, err, errDenied)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrTimedOut)
	assert.NotErrorIs(t, err, ErrInterrupted)
	assert.Contains(t, err.Error(), "queue orders creation failed")
	assert.Len(t, client.created, 1)
	assert.Empty(t, sleeper.delays)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ReasonTransport, perr.Reason)
}

func TestProvisionInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "empty name", req: Request{Name: " ", Timeout: time.Second, Delay: time.Second}},
		{name: "negative timeout", req: Request{Name: "orders", Timeout: -time.Second, Delay: time.Second}},
		{name: "zero delay", req: Request{Name: "orders", Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, client, _, _ := newTestProvisioner(map[string][]response{})

			_, err := p.Provision(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, client.created)
		})
	}
}

func TestProvisionLogsRetries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &recorder{}
	client := &fakeClient{rec: rec, responses: map[string][]response{
		"orders": {deletedRecently(), {url: queueURL + "orders"}},
	}}
	p := New(client, &fakeSleeper{rec: rec}, zap.New(core))

	_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 3 * time.Second, Delay: time.Second})
	require.NoError(t, err)

	warnings := logs.FilterMessage("queue deleted recently, retrying").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, "orders", warnings[0].ContextMap()["queue"])
	assert.Equal(t, 3*time.Second, warnings[0].ContextMap()["timeLeft"])

	created := logs.FilterMessage("queue created").All()
	require.Len(t, created, 1)
	assert.Equal(t, queueURL+"orders", created[0].ContextMap()["url"])
}

func TestProvisionRecordsMetrics(t *testing.T) {
	attempts := testutil.ToFloat64(metrics.CreateAttempts)
	retries := testutil.ToFloat64(metrics.CreateRetries)
	timeouts := testutil.ToFloat64(metrics.ProvisionFailures.WithLabelValues(ReasonTimedOut.String()))

	p, _, _, _ := newTestProvisioner(map[string][]response{
		"orders": {deletedRecently()},
	})
	_, err := p.Provision(context.Background(), Request{Name: "orders", Timeout: 2 * time.Second, Delay: time.Second})
	require.ErrorIs(t, err, ErrTimedOut)

	assert.Equal(t, attempts+2, testutil.ToFloat64(metrics.CreateAttempts))
	assert.Equal(t, retries+2, testutil.ToFloat64(metrics.CreateRetries))
	assert.Equal(t, timeouts+1, testutil.ToFloat64(metrics.ProvisionFailures.WithLabelValues(ReasonTimedOut.String())))
}

func TestProvisionAll(t *testing.T) {
	p, client, _, _ := newTestProvisioner(map[string][]response{
		"orders":   {{url: queueURL + "orders"}},
		"payments": {deletedRecently(), {url: queueURL + "payments"}},
	})

	handles, err := p.ProvisionAll(context.Background(), []string{"orders", "payments"}, 5*time.Second, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []queue.Handle{
		{Name: "orders", URL: queueURL + "orders"},
		{Name: "payments", URL: queueURL + "payments"},
	}, handles)
	assert.Equal(t, []string{"orders", "payments", "payments"}, client.created)
}

func TestProvisionAllStopsAtFirstFailure(t *testing.T) {
	p, client, _, _ := newTestProvisioner(map[string][]response{
		"orders":   {{url: queueURL + "orders"}},
		"payments": {{err: fmt.Errorf("%w: api error", queue.ErrNameExists)}},
		"invoices": {{url: queueURL + "invoices"}},
	})

	handles, err := p.ProvisionAll(context.Background(), []string{"orders", "payments", "invoices"}, 5*time.Second, time.Second)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "payments")
	assert.Equal(t, []queue.Handle{{Name: "orders", URL: queueURL + "orders"}}, handles)
	assert.Equal(t, []string{"orders", "payments"}, client.created)
}

func TestProvisionAllLogsFailureOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &recorder{}
	client := &fakeClient{rec: rec, responses: map[string][]response{
		"orders":   {{url: queueURL + "orders"}},
		"payments": {{err: fmt.Errorf("%w: api error", queue.ErrNameExists)}},
	}}
	p := New(client, &fakeSleeper{rec: rec}, zap.New(core))

	_, err := p.ProvisionAll(context.Background(), []string{"orders", "payments"}, 5*time.Second, time.Second)
	require.ErrorIs(t, err, ErrAlreadyExists)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Equal(t, "queue provisioning failed", errs[0].Message)
	assert.Equal(t, "payments", errs[0].ContextMap()["queue"])
}

func TestProvisionAllEmpty(t *testing.T) {
	p, client, _, _ := newTestProvisioner(map[string][]response{})

	handles, err := p.ProvisionAll(context.Background(), nil, 5*time.Second, time.Second)
	require.NoError(t, err)
	assert.Empty(t, handles)
	assert.Empty(t, client.created)
}
