package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := update{set: map[string]interface{}{"is_verified": true}}.build()
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "is_verified"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"otp":         map[string]string{"code": "123456"},
		"is_verified": false,
		"email":       "a@b.com",
	}
	ue1, err := update{set: updates}.build()
	require.NoError(t, err)
	ue2, err := update{set: updates}.build()
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "email", ue1.Names["#f0"])
	assert.Equal(t, "is_verified", ue1.Names["#f1"])
	assert.Equal(t, "otp", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := update{set: map[string]interface{}{"is_verified": true}}.build()
	require.NoError(t, err)
	boolVal, isBool := ue.Values[":v0"].(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := update{set: map[string]interface{}{}}.build()
	assert.ErrorContains(t, err, "no fields to update")
}

func TestUpdateBuild_SetIfAbsentAndRemove(t *testing.T) {
	ue, err := update{
		set:         map[string]interface{}{"is_verified": false},
		setIfAbsent: map[string]interface{}{"user_id": "01H", "created_at": "2026-01-01T00:00:00Z"},
		remove:      []string{"otp"},
	}.build()
	require.NoError(t, err)

	assert.Equal(t,
		"SET #f0 = :v0, #f1 = if_not_exists(#f1, :v1), #f2 = if_not_exists(#f2, :v2) REMOVE #f3",
		ue.Expr)
	assert.Equal(t, "created_at", ue.Names["#f1"])
	assert.Equal(t, "user_id", ue.Names["#f2"])
	assert.Equal(t, "otp", ue.Names["#f3"])
	assert.Len(t, ue.Values, 3)
}

func TestUpdateBuild_RemoveOnly(t *testing.T) {
	ue, err := update{remove: []string{"otp"}}.build()
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #f0", ue.Expr)
	assert.Empty(t, ue.Values)
}

func TestCondition_AddsPlaceholders(t *testing.T) {
	ue, err := update{set: map[string]interface{}{"is_verified": true}}.build()
	require.NoError(t, err)

	require.NoError(t, ue.condition("otp", "otp", nil))
	require.NoError(t, ue.condition("code", "code", "123456"))

	assert.Equal(t, "otp", ue.Names["#otp"])
	assert.Equal(t, "code", ue.Names["#code"])
	_, hasOTPValue := ue.Values[":otp"]
	assert.False(t, hasOTPValue)
	code, ok := ue.Values[":code"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "123456", code.Value)
}
