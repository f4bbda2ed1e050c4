package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	defaultLogGroup     = "/grocery-agent/services"
	logRetentionDays    = 30
	logShipTimeout      = 5 * time.Second
	logStreamTimeFormat = "20060102T150405Z"
)

// CloudWatchLogsAPI is the subset of the CloudWatch Logs client used for shipping.
type CloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsClient is an io.Writer that ships each written line as one
// event to a per-process stream. It is meant to sit behind a zap core.
type CloudWatchLogsClient struct {
	api     CloudWatchLogsAPI
	group   string
	stream  string
	enabled bool

	now    func() time.Time
	errOut io.Writer
	mu     sync.Mutex
}

// NewCloudWatchLogsClient returns a writer for logGroupName. When enabled the
// group (with its retention policy) and the stream are created up front.
func NewCloudWatchLogsClient(ctx context.Context, cfg aws.Config, logGroupName, serviceName string, enabled bool) (*CloudWatchLogsClient, error) {
	return newCloudWatchLogsClient(ctx, cloudwatchlogs.NewFromConfig(cfg), logGroupName, serviceName, enabled)
}

func newCloudWatchLogsClient(ctx context.Context, api CloudWatchLogsAPI, logGroupName, serviceName string, enabled bool) (*CloudWatchLogsClient, error) {
	if logGroupName == "" {
		logGroupName = defaultLogGroup
	}
	c := &CloudWatchLogsClient{
		api:     api,
		group:   logGroupName,
		stream:  serviceName + "-" + time.Now().UTC().Format(logStreamTimeFormat),
		enabled: enabled,
		now:     time.Now,
		errOut:  os.Stderr,
	}
	if !enabled {
		return c, nil
	}
	if err := c.provision(ctx); err != nil {
		return nil, fmt.Errorf("cloudwatch logs %s: %w", c.group, err)
	}
	return c, nil
}

// provision is idempotent: existing groups and streams are reused.
func (c *CloudWatchLogsClient) provision(ctx context.Context) error {
	_, err := c.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: aws.String(c.group)})
	if ignoreExists(err) != nil {
		return fmt.Errorf("create log group: %w", err)
	}
	if _, err := c.api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(c.group),
		RetentionInDays: aws.Int32(logRetentionDays),
	}); err != nil {
		return fmt.Errorf("set retention: %w", err)
	}
	_, err = c.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(c.group),
		LogStreamName: aws.String(c.stream),
	})
	if ignoreExists(err) != nil {
		return fmt.Errorf("create log stream: %w", err)
	}
	return nil
}

func ignoreExists(err error) error {
	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		return nil
	}
	return err
}

// Write never fails. Shipping errors are reported on stderr so a CloudWatch
// outage cannot break the caller's logging.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	msg := bytes.TrimRight(p, "\n")
	if !c.enabled || len(msg) == 0 {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), logShipTimeout)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(c.group),
		LogStreamName: aws.String(c.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   aws.String(string(msg)),
			Timestamp: aws.Int64(c.now().UnixMilli()),
		}},
	})
	if err != nil {
		fmt.Fprintf(c.errOut, "cloudwatch logs: %v\n", err)
	}
	return len(p), nil
}

func (c *CloudWatchLogsClient) IsEnabled() bool {
	return c.enabled
}
