package friendship

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequestRejectsSelf(t *testing.T) {
	id := uuid.New()
	assert.ErrorIs(t, ValidateRequest(id, id), ErrSelfFriendship)
	assert.NoError(t, ValidateRequest(uuid.New(), uuid.New()))
}

func TestRespondableByRecipientOnly(t *testing.T) {
	requester := uuid.New()
	recipient := uuid.New()

	f := &Friendship{UserID: requester, FriendID: recipient, Status: StatusPending}

	assert.NoError(t, f.RespondableBy(recipient))
	assert.ErrorIs(t, f.RespondableBy(requester), ErrNotRecipient)
	assert.ErrorIs(t, f.RespondableBy(uuid.New()), ErrNotRecipient)
}

func TestRespondableByRequiresPending(t *testing.T) {
	recipient := uuid.New()

	for _, status := range []Status{StatusAccepted, StatusRejected} {
		f := &Friendship{UserID: uuid.New(), FriendID: recipient, Status: status}
		assert.ErrorIs(t, f.RespondableBy(recipient), ErrNotPending, "status %s", status)
	}
}

func TestInvolvesAndOtherSide(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	f := &Friendship{UserID: a, FriendID: b}

	assert.True(t, f.Involves(a))
	assert.True(t, f.Involves(b))
	assert.False(t, f.Involves(uuid.New()))

	assert.Equal(t, b, f.OtherSide(a))
	assert.Equal(t, a, f.OtherSide(b))
}
