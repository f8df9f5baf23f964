package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTripsText(t *testing.T) {
	raw := uuid.NewString()
	id, err := Parse[ProductID](raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.String())
	assert.False(t, id.IsZero())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse[SaleID]("not-a-uuid")
	require.Error(t, err)

	_, err = Parse[SaleID]("   ")
	require.Error(t, err)
}

func TestIDJSONEncodesAsString(t *testing.T) {
	id := New[StoreID]()
	payload, err := json.Marshal(struct {
		StoreID StoreID `json:"store_id"`
	}{StoreID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"store_id":"`+id.String()+`"}`, string(payload))

	var decoded struct {
		StoreID StoreID `json:"store_id"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, id, decoded.StoreID)
}

func TestIDValueAndScan(t *testing.T) {
	id := New[CategoryID]()
	value, err := id.Value()
	require.NoError(t, err)

	var scanned CategoryID
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, id, scanned)
}

func TestZeroID(t *testing.T) {
	var id UserID
	assert.True(t, id.IsZero())
	assert.True(t, FromUUID[UserID](uuid.Nil).IsZero())
}
