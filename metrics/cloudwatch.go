// file: metrics/cloudwatch.go
package metrics

import (
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"go-club-hub/logger"
)

// Sink receives point-in-time metrics destined for an external system.
type Sink interface {
	Put(name string, value float64, unit string, dims map[string]string)
}

// NopSink drops everything. It is the default when CloudWatch is disabled.
type NopSink struct{}

func (NopSink) Put(string, float64, string, map[string]string) {}

// CloudWatchSink pushes metrics with PutMetricData.
type CloudWatchSink struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchSink builds a sink from the default AWS credential chain.
func NewCloudWatchSink(namespace string) (*CloudWatchSink, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchSinkWithClient(cloudwatch.New(sess), namespace), nil
}

// NewCloudWatchSinkWithClient is used by tests to inject a fake client.
func NewCloudWatchSinkWithClient(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchSink {
	return &CloudWatchSink{client: client, namespace: namespace}
}

// Put sends a single datum. Failures are logged, never returned.
func (s *CloudWatchSink) Put(name string, value float64, unit string, dims map[string]string) {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dimensions := make([]*cloudwatch.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, &cloudwatch.Dimension{
			Name:  aws.String(k),
			Value: aws.String(dims[k]),
		})
	}

	_, err := s.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(s.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(name),
				Dimensions: dimensions,
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[CloudWatchSink.Put] metric %s failed: %v", name, err)
	}
}
