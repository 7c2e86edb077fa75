package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	payload := JoinRoomPayload{RoomCode: "AB12CD", PlayerName: "Alice"}
	msg, err := NewMessage(MsgJoinRoom, payload)

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, MsgJoinRoom, msg.Type)
	assert.NotEmpty(t, msg.Payload)
}

func TestNewMessage_NilPayload(t *testing.T) {
	msg, err := NewMessage(MsgPong, nil)

	assert.NoError(t, err)
	assert.Equal(t, MsgPong, msg.Type)
	assert.Empty(t, msg.Payload)
}

func TestEncodeDecode(t *testing.T) {
	payload := DecisionPayload{Decision: "hold"}
	originalMsg, err := NewMessage(MsgPlayerDecision, payload)
	assert.NoError(t, err)

	bytes, err := originalMsg.Encode()
	assert.NoError(t, err)
	assert.NotEmpty(t, bytes)

	decodedMsg, err := Decode(bytes)
	assert.NoError(t, err)
	assert.NotNil(t, decodedMsg)

	assert.Equal(t, originalMsg.Type, decodedMsg.Type)
	assert.Equal(t, originalMsg.Payload, decodedMsg.Payload)
}

func TestParsePayload(t *testing.T) {
	msg := MustNewMessage(MsgBuyBackIn, BuyBackPayload{Amount: 25.5})

	parsed, err := ParsePayload[BuyBackPayload](msg)
	require.NoError(t, err)
	assert.InDelta(t, 25.5, parsed.Amount, 1e-9)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage(ErrCodeBlockedByDebt)
	assert.Equal(t, MsgError, msg.Type)

	parsed, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeBlockedByDebt, parsed.Code)
	assert.Equal(t, ErrorMessages[ErrCodeBlockedByDebt], parsed.Message)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
