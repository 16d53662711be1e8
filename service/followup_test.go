package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/crm_followup/models"
	"github.com/BerniceZTT/crm_followup/utils"
)

var (
	admin = &utils.LoginUser{ID: "1", Role: string(models.UserRoleADMINISTRATOR), Username: "admin"}
	sales = &utils.LoginUser{ID: "2", Role: string(models.UserRoleSALES_USER), Username: "alice"}
)

func seededStore() *memoryStore {
	store := newMemoryStore()
	store.customers["CUST-A"] = models.CustomerRecord{
		Code:            "CUST-A",
		CustomerName:    "Alpha",
		DefaultCurrency: "INR",
		BranchDetails:   []models.BranchDetail{{Branch: "Mumbai"}, {Branch: "Pune"}},
		SalesTeam:       []models.SalesTeamMember{{SalesPerson: "alice"}},
	}
	store.customers["CUST-B"] = models.CustomerRecord{Code: "CUST-B", CustomerName: "Beta", DefaultCurrency: "USD"}

	store.addLog("CUST-A", "Alpha", "RING", 2, 1000, "2024-06-01")
	store.addLog("CUST-B", "Beta", "WIRE", 10, 2000, "2024-06-20")
	store.addLog("CUST-A", "Alpha", "CHAIN", 1, 500, "")
	return store
}

func TestGroupLogs_TotalsAndOrdering(t *testing.T) {
	store := seededStore()
	customers := GroupLogs(store.logs, store.customers)

	require.Len(t, customers, 2)
	assert.Equal(t, "CUST-B", customers[0].CustomerCode, "highest total first")
	assert.Equal(t, 20000.0, customers[0].TotalValue)

	alpha := customers[1]
	assert.Equal(t, 2500.0, alpha.TotalValue)
	assert.Equal(t, "INR", alpha.DefaultCurrency)
	assert.Equal(t, "Mumbai", alpha.CustomBranch)
	require.Len(t, alpha.Items, 2)
	assert.Equal(t, 2000.0, alpha.Items[0].Value)
	assert.Equal(t, 1000.0, alpha.Items[0].Rate)
	assert.Equal(t, store.logs[0].ID.Hex(), alpha.Items[0].LogID)

	sum := 0.0
	for _, item := range alpha.Items {
		sum += item.Value
	}
	assert.InDelta(t, alpha.TotalValue, sum, 1e-9)
}

func TestGroupLogs_UnknownCustomer(t *testing.T) {
	logs := []models.FrequencyLog{{CustomerCode: "GHOST", CustomerName: "Ghost", Item: "X", Qty: 1, Value: 5}}
	customers := GroupLogs(logs, nil)
	require.Len(t, customers, 1)
	assert.Equal(t, "GHOST", customers[0].Name)
	assert.Empty(t, customers[0].DefaultCurrency)
}

func TestListForUser_Visibility(t *testing.T) {
	svc := NewFollowUpService(seededStore(), nil)

	all, err := svc.ListForUser(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListForUser(context.Background(), sales)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "CUST-A", mine[0].CustomerCode)

	none, err := svc.ListForUser(context.Background(), &utils.LoginUser{Username: "bob", Role: string(models.UserRoleSALES_USER)})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListForUser_StoreFailure(t *testing.T) {
	store := seededStore()
	store.err = errors.New("boom")
	_, err := NewFollowUpService(store, nil).ListForUser(context.Background(), admin)
	assert.Error(t, err)
}

func TestMarkDone(t *testing.T) {
	store := seededStore()
	svc := NewFollowUpService(store, nil)
	id := store.logs[1].ID.Hex()

	require.NoError(t, svc.MarkDone(context.Background(), id))
	assert.True(t, store.logs[1].DoneFollowUp)

	all, err := svc.ListForUser(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1, "customer disappears once all items are done")

	err = svc.MarkDone(context.Background(), "000000000000000000000000")
	var apiErr *utils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	err = svc.MarkDone(context.Background(), "")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestMarkCustomerDone(t *testing.T) {
	store := seededStore()
	svc := NewFollowUpService(store, nil)

	n, err := svc.MarkCustomerDone(context.Background(), "CUST-A")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.MarkCustomerDone(context.Background(), "CUST-A")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBucketDetail(t *testing.T) {
	svc := NewFollowUpService(seededStore(), nil)
	svc.Now = func() time.Time { return time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC) }

	buckets, err := svc.Buckets(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, buckets, 4)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 1, buckets[1].Count)

	detail, err := svc.BucketDetail(context.Background(), admin, 0)
	require.NoError(t, err)
	assert.Equal(t, "< 10K", detail.Label)
	require.Len(t, detail.Customers, 1)
	items := detail.Customers[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, models.UrgencyOverdue, items[0].Urgency)
	assert.Equal(t, models.UrgencyNoDate, items[1].Urgency)

	detail, err = svc.BucketDetail(context.Background(), admin, 1)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyDueToday, detail.Customers[0].Items[0].Urgency)

	_, err = svc.BucketDetail(context.Background(), admin, 9)
	var apiErr *utils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
