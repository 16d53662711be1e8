package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/crm_followup/models"
)

func customerWorth(code string, total float64) models.FollowUpCustomer {
	return models.FollowUpCustomer{Name: code, CustomerCode: code, TotalValue: total}
}

func TestBucketIndex_DefaultBoundaries(t *testing.T) {
	defs := DefaultBucketDefinitions()
	cases := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{9999.99, 0},
		{10000, 1},
		{49999, 1},
		{50000, 2},
		{99999, 2},
		{100000, 3},
		{5e9, 3},
		{math.MaxFloat64, 3},
		{-5, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BucketIndex(tc.value, defs), "value %v", tc.value)
	}
}

func TestBucketCustomers_EveryCustomerInExactlyOneBucket(t *testing.T) {
	customers := []models.FollowUpCustomer{
		customerWorth("A", 500),
		customerWorth("B", 15000),
		customerWorth("C", 12000),
		customerWorth("D", 250000),
	}
	buckets := BucketCustomers(customers, DefaultBucketDefinitions())

	require.Len(t, buckets, 4)
	total := 0
	for _, b := range buckets {
		assert.Equal(t, len(b.Customers), b.Count)
		total += b.Count
	}
	assert.Equal(t, len(customers), total)

	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 2, buckets[1].Count)
	assert.Equal(t, 0, buckets[2].Count, "empty buckets are kept")
	assert.NotNil(t, buckets[2].Customers)
	assert.Equal(t, 1, buckets[3].Count)
	assert.Equal(t, "B", buckets[1].Customers[0].CustomerCode, "customer order is preserved")
}

func TestBucketCustomers_NoDefinitions(t *testing.T) {
	assert.Empty(t, BucketCustomers([]models.FollowUpCustomer{customerWorth("A", 1)}, nil))
}

func TestSummarizeBuckets_ColorsAndCounts(t *testing.T) {
	buckets := BucketCustomers([]models.FollowUpCustomer{customerWorth("A", 60000)}, DefaultBucketDefinitions())
	summary := SummarizeBuckets(buckets)

	require.Len(t, summary, 4)
	assert.Equal(t, "50K - 1L", summary[2].Label)
	assert.Equal(t, 1, summary[2].Count)
	for i, s := range summary {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, BucketPalette[i], s.Color)
	}
	assert.Equal(t, BucketPalette[1], BucketColor(5))
}

func TestHasBucketData(t *testing.T) {
	defs := DefaultBucketDefinitions()
	assert.False(t, HasBucketData(BucketCustomers(nil, defs)))
	assert.True(t, HasBucketData(BucketCustomers([]models.FollowUpCustomer{customerWorth("A", 1)}, defs)))
}

func TestParseBucketDefinitions(t *testing.T) {
	defs, err := ParseBucketDefinitions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBucketDefinitions(), defs)

	defs, err = ParseBucketDefinitions(`[{"label":"small","min":0,"max":100},{"label":"big","min":100,"max":1000}]`)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "big", defs[1].Label)

	_, err = ParseBucketDefinitions(`not json`)
	assert.Error(t, err)

	_, err = ParseBucketDefinitions(`[]`)
	assert.Error(t, err)

	_, err = ParseBucketDefinitions(`[{"label":"bad","min":10,"max":5}]`)
	assert.Error(t, err)

	_, err = ParseBucketDefinitions(`[{"label":"b","min":100,"max":200},{"label":"a","min":0,"max":100}]`)
	assert.Error(t, err)

	_, err = ParseBucketDefinitions(`[{"min":0,"max":100}]`)
	assert.Error(t, err)
}
