package aws_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
)

// ---- fakes ----

type fakeSecrets struct {
	calls int
	value *string
	err   error
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	return &sns.PublishOutput{}, f.err
}

type fakeSQS struct {
	messages []types.Message
	deleted  []string
}

func (f *fakeSQS) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, *in.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeCloudWatch struct {
	calls int
	last  *cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.calls++
	f.last = in
	return &cloudwatch.PutMetricDataOutput{}, nil
}

type fakeS3 struct {
	body string
	err  error
}

func (f *fakeS3) GetObject(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

// ---- tests ----

func TestGetSecret_CachesValue(t *testing.T) {
	api := &fakeSecrets{value: sdkaws.String(`{"STRIPE_SECRET_KEY":"sk_test_1"}`)}
	client := awspkg.NewSecretsClientWithAPI(api)

	for i := 0; i < 3; i++ {
		v, err := client.GetSecret(context.Background(), "dev/stripe-secret")
		require.NoError(t, err)
		assert.Equal(t, `{"STRIPE_SECRET_KEY":"sk_test_1"}`, v)
	}
	assert.Equal(t, 1, api.calls)
}

func TestGetSecret_NoStringValue(t *testing.T) {
	client := awspkg.NewSecretsClientWithAPI(&fakeSecrets{})

	_, err := client.GetSecret(context.Background(), "dev/stripe-secret")
	assert.Error(t, err)
}

func TestGetSecret_APIError(t *testing.T) {
	client := awspkg.NewSecretsClientWithAPI(&fakeSecrets{err: errors.New("access denied")})

	_, err := client.GetSecret(context.Background(), "dev/stripe-secret")
	assert.ErrorContains(t, err, "access denied")
}

func TestSNSPublish(t *testing.T) {
	api := &fakeSNS{}
	client := awspkg.NewSNSClientWithAPI(api)

	err := client.Publish(context.Background(), "arn:aws:sns:us-east-1:000000000000:links", []byte(`{"type":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:links", *api.input.TopicArn)
	assert.Equal(t, `{"type":"x"}`, *api.input.Message)
}

func TestSNSPublish_EmptyTopic(t *testing.T) {
	api := &fakeSNS{}
	client := awspkg.NewSNSClientWithAPI(api)

	assert.Error(t, client.Publish(context.Background(), "", []byte("x")))
	assert.Nil(t, api.input)
}

func TestPollOnce_DeletesOnlyHandledMessages(t *testing.T) {
	api := &fakeSQS{messages: []types.Message{
		{Body: sdkaws.String("ok"), ReceiptHandle: sdkaws.String("r1")},
		{Body: sdkaws.String("bad"), ReceiptHandle: sdkaws.String("r2")},
		{ReceiptHandle: sdkaws.String("r3")},
	}}
	consumer := awspkg.NewSQSConsumerWithAPI(api, "http://localhost/queue", zap.NewNop())

	var seen []string
	err := consumer.PollOnce(context.Background(), func(_ context.Context, body string) error {
		seen = append(seen, body)
		if body == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "bad"}, seen)
	assert.Equal(t, []string{"r1"}, api.deleted)
}

func TestMetricsClient_DisabledSendsNothing(t *testing.T) {
	api := &fakeCloudWatch{}
	m := awspkg.NewMetricsClientWithAPI(api, "", false)

	require.NoError(t, m.RecordCount(context.Background(), awspkg.MetricPaymentLinksCreated, nil))
	assert.Equal(t, 0, api.calls)
	assert.False(t, m.IsEnabled())
}

func TestMetricsClient_Enabled(t *testing.T) {
	api := &fakeCloudWatch{}
	m := awspkg.NewMetricsClientWithAPI(api, "GroceryAgent", true)

	require.NoError(t, m.RecordCount(context.Background(), awspkg.MetricPaymentLinksFailed, map[string]string{"Service": "checkout", "Kind": "ProductNotFound"}))
	require.Equal(t, 1, api.calls)

	assert.Equal(t, "GroceryAgent", *api.last.Namespace)
	datum := api.last.MetricData[0]
	assert.Equal(t, "PaymentLinksFailed", *datum.MetricName)
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Kind", *datum.Dimensions[0].Name)
	assert.Equal(t, "Service", *datum.Dimensions[1].Name)
}

func TestMetricsClient_NilIsDisabled(t *testing.T) {
	var m *awspkg.MetricsClient

	assert.False(t, m.IsEnabled())
	assert.NoError(t, m.RecordCount(context.Background(), awspkg.MetricHTTPRequests, nil))
}

func TestReadObject(t *testing.T) {
	r := awspkg.NewS3Reader(&fakeS3{body: `[{"name":"Apples"}]`})

	b, err := r.ReadObject(context.Background(), "bucket", "products.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Apples"}]`, string(b))
}

func TestReadObject_Error(t *testing.T) {
	r := awspkg.NewS3Reader(&fakeS3{err: errors.New("NoSuchKey")})

	_, err := r.ReadObject(context.Background(), "bucket", "missing.json")
	assert.ErrorContains(t, err, "s3://bucket/missing.json")
}

func TestParseS3URI(t *testing.T) {
	bucket, key, ok := awspkg.ParseS3URI("s3://grocery-list-bucket/seed/product_list.json")
	assert.True(t, ok)
	assert.Equal(t, "grocery-list-bucket", bucket)
	assert.Equal(t, "seed/product_list.json", key)

	for _, bad := range []string{"product_list.json", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, ok := awspkg.ParseS3URI(bad)
		assert.False(t, ok, bad)
	}
}
