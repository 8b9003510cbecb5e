package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveContracts() []Contract {
	return []Contract{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusConfirmed},
		{ID: "3", Status: StatusDeclined},
		{ID: "4", Status: StatusCanceled},
		{ID: "5", Status: StatusPending},
	}
}

func ids(cs []Contract) []ID {
	out := make([]ID, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFilterContracts(t *testing.T) {
	tests := []struct {
		tab  Tab
		want []ID
	}{
		{TabPending, []ID{"1", "5"}},
		{TabConfirmed, []ID{"2"}},
		{TabDeclined, []ID{"3"}},
		{TabCanceled, []ID{"4"}},
		{TabAll, []ID{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			got := FilterContracts(fiveContracts(), tt.tab)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterContracts_DoesNotMutateSource(t *testing.T) {
	source := fiveContracts()

	all := FilterContracts(source, TabAll)
	all[0].Status = StatusCanceled

	assert.Equal(t, StatusPending, source[0].Status)
}

func TestFilterContracts_NilAndUnknown(t *testing.T) {
	got := FilterContracts(nil, TabPending)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, FilterContracts(fiveContracts(), Tab("archived")))
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, TabConfirmed, tab)

	tab, err = ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)
	assert.True(t, tab.ShowsDashboard())

	_, err = ParseTab("archived")
	assert.Error(t, err)
}

func TestEmptyStateMessage(t *testing.T) {
	assert.Equal(t, "You have no pending contracts.", EmptyStateMessage(TabPending))
	assert.Equal(t, "You have no canceled contracts.", EmptyStateMessage(TabCanceled))
	assert.Equal(t, "You have no contracts yet.", EmptyStateMessage(TabAll))
}
