package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/flightcore/crawl/core"
)

func TestMockAdapterSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockAdapter(ctrl)
	var _ Adapter = mock

	mock.EXPECT().SourceID().Return("nusantara-air-direct")
	assert.Equal(t, "nusantara-air-direct", mock.SourceID())

	q := core.Query{Origin: "CGK", Destination: "SIN"}
	offers := []*core.RawOffer{{SourceID: "nusantara-air-direct"}}
	mock.EXPECT().Search(gomock.Any(), gomock.Any(), q).Return(offers, nil)
	got, err := mock.Search(context.Background(), &AdapterContext{}, q)
	assert.NoError(t, err)
	assert.Equal(t, offers, got)

	mock.EXPECT().HealthCheck(gomock.Any()).Return(nil)
	assert.NoError(t, mock.HealthCheck(context.Background()))

	mock.EXPECT().ClassifyFailure(errors.New("boom")).Return(core.FailureUnknown)
	assert.Equal(t, core.FailureUnknown, mock.ClassifyFailure(errors.New("boom")))
}
