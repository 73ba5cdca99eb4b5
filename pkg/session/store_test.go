package session

import (
	"testing"

	"github.com/borrowdesk/borrowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreListPageReplacedWholesale(t *testing.T) {
	t.Parallel()

	store := NewStore()
	assert.Empty(t, store.ListPage().Rows)

	store.SetListPage(ListPage{
		Rows:         []models.BorrowRow{{MemberID: 1, Title: "Dune"}},
		TotalRecords: 12,
	})

	page := store.ListPage()
	require.Len(t, page.Rows, 1)
	assert.Equal(t, 12, page.TotalRecords)

	store.SetListPage(ListPage{})
	assert.Empty(t, store.ListPage().Rows)
	assert.Zero(t, store.ListPage().TotalRecords)
}

func TestStorePublishDataChanged(t *testing.T) {
	t.Parallel()

	store := NewStore()

	received := []Event{}
	store.Subscribe(func(e Event) {
		received = append(received, e)
	})

	store.PublishDataChanged()
	store.PublishDataChanged()

	require.Len(t, received, 2)
	assert.Equal(t, EventDataChanged, received[0].Kind)
}

func TestStoreSubscriberMayAccessStore(t *testing.T) {
	t.Parallel()

	store := NewStore()

	// Callbacks run outside the store lock, so reading and writing the store
	// from a subscriber must not deadlock.
	store.Subscribe(func(Event) {
		store.SetFormVisible(false)
		_ = store.ListPage()
	})

	store.SetFormVisible(true)
	store.PublishDataChanged()
	assert.False(t, store.FormVisible())
}

func TestStoreSelectionState(t *testing.T) {
	t.Parallel()

	store := NewStore()

	store.SetEditingID(7)
	store.SetPendingDeleteID(9)
	assert.Equal(t, models.ID(7), store.EditingID())
	assert.Equal(t, models.ID(9), store.PendingDeleteID())

	store.SetDeleteModalVisible(true)
	assert.True(t, store.DeleteModalVisible())
}

func TestStoreDrainNotifications(t *testing.T) {
	t.Parallel()

	store := NewStore()
	assert.Empty(t, store.DrainNotifications())

	store.PushNotification(NotificationSuccess, "Record deleted successfully")
	store.PushNotification(NotificationError, "Failed to save the record.")

	drained := store.DrainNotifications()
	require.Len(t, drained, 2)
	assert.Equal(t, NotificationSuccess, drained[0].Level)
	assert.Equal(t, "Failed to save the record.", drained[1].Message)

	assert.Empty(t, store.DrainNotifications())
}
