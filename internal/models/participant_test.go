package models_test

import (
	"testing"

	"santagogo/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParticipantDisplay(t *testing.T) {
	tests := []struct {
		name        string
		participant models.Participant
		want        string
	}{
		{
			name:        "prefers the handle",
			participant: models.Participant{Username: "alice", FullName: "Alice Aronson"},
			want:        "@alice",
		},
		{
			name:        "falls back to the full name",
			participant: models.Participant{Username: "", FullName: "Bob Brown"},
			want:        "Bob Brown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.participant.Display())
		})
	}
}

func TestParticipantHasWishlist(t *testing.T) {
	empty := models.Participant{}
	blank := models.Participant{Wishlist: "   "}
	set := models.Participant{Wishlist: "a red scarf"}
	assert.False(t, empty.HasWishlist())
	assert.False(t, blank.HasWishlist())
	assert.True(t, set.HasWishlist())
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"@Alice", "alice"},
		{"alice", "alice"},
		{"  @BoB_99  ", "bob_99"},
		{"", ""},
		{"@", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, models.NormalizeUsername(tt.in), "input %q", tt.in)
	}
}

func TestPairExportDisplays(t *testing.T) {
	exp := models.PairExport{
		GiverUserID:      1,
		GiverUsername:    "",
		GiverFullName:    "No Handle",
		ReceiverUserID:   2,
		ReceiverUsername: "rcv",
		ReceiverFullName: "Receiver",
	}
	assert.Equal(t, "No Handle", exp.GiverDisplay())
	assert.Equal(t, "@rcv", exp.ReceiverDisplay())
}
