package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type askPayload struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id"`
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(askPayload{Query: "宿舍几点关门"})
	assert.NoError(t, err)

	err = ValidateRequest(askPayload{SessionId: "sess-1"})
	assert.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "Query")
}

func TestResponseEnvelope(t *testing.T) {
	ok := SuccessResponse("done", map[string]string{"k": "v"})
	assert.True(t, ok.Success)
	assert.Equal(t, "done", ok.Message)
	assert.NotNil(t, ok.Data)

	bad := ErrorResponse("broken")
	assert.False(t, bad.Success)
	assert.Equal(t, "broken", bad.Message)
	assert.Nil(t, bad.Data)
}
