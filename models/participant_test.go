package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantRefUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "number", input: `12`, want: 12},
		{name: "numeric string", input: `"12"`, want: 12},
		{name: "object", input: `{"id":12,"name":"Anna Petrova"}`, want: 12},
		{name: "object with string id", input: `{"id":"12"}`, want: 12},
		{name: "zero", input: `0`, wantErr: true},
		{name: "negative", input: `-3`, wantErr: true},
		{name: "fraction", input: `1.5`, wantErr: true},
		{name: "word", input: `"twelve"`, wantErr: true},
		{name: "object without id", input: `{"name":"Anna"}`, wantErr: true},
		{name: "array", input: `[12]`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref ParticipantRef
			err := json.Unmarshal([]byte(tt.input), &ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParticipantRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID())
		})
	}
}

func TestParticipantRefMarshal(t *testing.T) {
	data, err := json.Marshal(RefByID(4))
	require.NoError(t, err)
	assert.JSONEq(t, `4`, string(data))

	data, err = json.Marshal(RefByUser(&User{ID: 4, FirstName: "Dina", LastName: "Novak", Email: "dina@club.example"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"name":"Dina Novak"}`, string(data))
}

func TestParticipantRefNullInMatchPayload(t *testing.T) {
	var payload struct {
		Player1 *ParticipantRef `json:"player1"`
		Player2 *ParticipantRef `json:"player2"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"player1":{"id":3},"player2":null}`), &payload))

	require.NotNil(t, IDPtr(payload.Player1))
	assert.Equal(t, 3, *IDPtr(payload.Player1))
	assert.Nil(t, IDPtr(payload.Player2))
}

func TestRefByUserNil(t *testing.T) {
	ref := RefByUser(nil)
	assert.Zero(t, ref.ID())
	_, ok := ref.User()
	assert.False(t, ok)
}

func TestMatchUID(t *testing.T) {
	assert.Equal(t, "R3M2", MatchUID(WinnersSide, 3, 2))
	assert.Equal(t, "LR1M4", MatchUID(LosersSide, 1, 4))
}

func TestTournamentHasParticipant(t *testing.T) {
	tr := Tournament{Participants: []int{5, 9}}
	assert.True(t, tr.HasParticipant(9))
	assert.False(t, tr.HasParticipant(7))
}
