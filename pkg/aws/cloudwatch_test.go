package aws

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	groupExists  bool
	streamExists bool
	putErr       error
	streams      []string
	messages     []string
	stamps       []int64
}

func (f *fakeLogs) CreateLogGroup(_ context.Context, _ *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	if f.groupExists {
		return nil, &types.ResourceAlreadyExistsException{}
	}
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogs) PutRetentionPolicy(_ context.Context, _ *cloudwatchlogs.PutRetentionPolicyInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(_ context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.streams = append(f.streams, *in.LogStreamName)
	if f.streamExists {
		return nil, &types.ResourceAlreadyExistsException{}
	}
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	for _, ev := range in.LogEvents {
		f.messages = append(f.messages, *ev.Message)
		f.stamps = append(f.stamps, *ev.Timestamp)
	}
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func TestCloudWatchLogs_ExistingGroupAndStreamAreReused(t *testing.T) {
	api := &fakeLogs{groupExists: true, streamExists: true}

	c, err := newCloudWatchLogsClient(context.Background(), api, "", "checkout-service", true)
	require.NoError(t, err)
	require.Len(t, api.streams, 1)
	assert.Contains(t, api.streams[0], "checkout-service-")
	assert.Equal(t, defaultLogGroup, c.group)
	assert.True(t, c.IsEnabled())
}

func TestCloudWatchLogs_WriteShipsOneEventPerLine(t *testing.T) {
	api := &fakeLogs{}
	c, err := newCloudWatchLogsClient(context.Background(), api, "/grocery-agent/test", "checkout-service", true)
	require.NoError(t, err)
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return stamp }

	n, err := c.Write([]byte("{\"msg\":\"one\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	_, _ = c.Write([]byte("\n"))

	assert.Equal(t, []string{`{"msg":"one"}`}, api.messages)
	assert.Equal(t, []int64{stamp.UnixMilli()}, api.stamps)
}

func TestCloudWatchLogs_ShippingErrorGoesToErrOut(t *testing.T) {
	api := &fakeLogs{putErr: errors.New("throttled")}
	c, err := newCloudWatchLogsClient(context.Background(), api, "", "checkout-service", true)
	require.NoError(t, err)
	var errOut bytes.Buffer
	c.errOut = &errOut

	n, err := c.Write([]byte("line"))

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Contains(t, errOut.String(), "throttled")
}

func TestCloudWatchLogs_DisabledIsNoop(t *testing.T) {
	api := &fakeLogs{}
	c, err := newCloudWatchLogsClient(context.Background(), api, "", "checkout-service", false)
	require.NoError(t, err)

	n, err := c.Write([]byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Empty(t, api.messages)
	assert.Empty(t, api.streams)
}
