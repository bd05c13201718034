package store

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/geosubmit-api/mocks"
	"github.com/bitmark-inc/geosubmit-api/schema"
)

func TestCachedAPIKeysHit(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockAPIKeyStore(ctl)
	key := &schema.APIKey{ValidKey: "test", Shortname: "test", AllowSubmit: true}
	m.EXPECT().GetAPIKey("test").Return(key, nil).Times(1)

	c := NewCachedAPIKeys(m, 10, time.Minute)
	for i := 0; i < 3; i++ {
		k, err := c.GetAPIKey("test")
		assert.NoError(t, err)
		assert.Equal(t, key, k)
	}
}

func TestCachedAPIKeysNotFoundIsCached(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m := mocks.NewMockAPIKeyStore(ctl)
	m.EXPECT().GetAPIKey("unknown").Return(nil, ErrAPIKeyNotFound).Times(1)

	c := NewCachedAPIKeys(m, 10, time.Minute)
	for i := 0; i < 2; i++ {
		k, err := c.GetAPIKey("unknown")
		assert.Nil(t, k)
		assert.Equal(t, ErrAPIKeyNotFound, err)
	}
}

func TestCachedAPIKeysErrorIsNotCached(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	dbErr := errors.New("connection reset")
	m := mocks.NewMockAPIKeyStore(ctl)
	gomock.InOrder(
		m.EXPECT().GetAPIKey("test").Return(nil, dbErr),
		m.EXPECT().GetAPIKey("test").Return(&schema.APIKey{ValidKey: "test"}, nil),
	)

	c := NewCachedAPIKeys(m, 0, 0)
	_, err := c.GetAPIKey("test")
	assert.Equal(t, dbErr, err)

	k, err := c.GetAPIKey("test")
	assert.NoError(t, err)
	assert.Equal(t, "test", k.ValidKey)
}
