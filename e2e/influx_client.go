package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient wraps the official InfluxDB v2 client for the end-to-end
// suite. It hides token/org/bucket plumbing behind query helpers.
type InfluxClient struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for a running InfluxDB instance.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		org:    org,
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// CountMeasurement returns how many points of the given measurement landed
// in the bucket within the lookback range, e.g. "-5m".
func (c *InfluxClient) CountMeasurement(ctx context.Context, measurement, lookback string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q) |> range(start:%s) |> filter(fn: (r) => r._measurement == %q)`,
		c.bucket, lookback, measurement)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	count := 0
	for res.Next() {
		count++
	}
	return count, res.Err()
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
