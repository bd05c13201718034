package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/geosubmit-api/mocks"
	"github.com/bitmark-inc/geosubmit-api/schema"
	"github.com/bitmark-inc/geosubmit-api/store"
)

type GeosubmitTestSuite struct {
	suite.Suite
	ctl       *gomock.Controller
	queueMock *mocks.MockQueue
	storeMock *mocks.MockAPIKeyStore
	metrics   tally.TestScope
	router    *gin.Engine
}

func (s *GeosubmitTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.ctl = gomock.NewController(s.T())
	s.queueMock = mocks.NewMockQueue(s.ctl)
	s.storeMock = mocks.NewMockAPIKeyStore(s.ctl)
	s.metrics = tally.NewTestScope("", nil)

	server := NewServer(s.storeMock, s.queueMock, s.metrics, nil)
	s.router = server.setupRouter()
}

func (s *GeosubmitTestSuite) TearDownTest() {
	s.ctl.Finish()
}

func (s *GeosubmitTestSuite) post(path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest("POST", path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *GeosubmitTestSuite) counter(name string) int64 {
	for _, c := range s.metrics.Snapshot().Counters() {
		if c.Name() == name {
			return c.Value()
		}
	}
	return 0
}

func cellItem() map[string]interface{} {
	return map[string]interface{}{
		"carrier":               "Some Carrier",
		"homeMobileCountryCode": 234,
		"homeMobileNetworkCode": 30,
		"timestamp":             1405602028568,
		"xtra_field":            1,
		"position": map[string]interface{}{
			"latitude":  51.5,
			"longitude": -0.12,
			"source":    "fused",
		},
		"connection": map[string]interface{}{
			"ip": "81.2.69.192",
		},
		"cellTowers": []interface{}{
			map[string]interface{}{
				"radioType":         "umts",
				"mobileCountryCode": 234,
				"mobileNetworkCode": 30,
				"locationAreaCode":  123,
				"cellId":            12345,
				"xtra_field":        4,
			},
		},
	}
}

func (s *GeosubmitTestSuite) TestCell() {
	s.storeMock.EXPECT().GetAPIKey("test").Return(&schema.APIKey{
		ValidKey:    "test",
		AllowSubmit: true,
	}, nil).Times(1)

	s.queueMock.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, metadata schema.SubmissionMetadata, reports []schema.Report) error {
			s.Require().NotNil(metadata.APIKey)
			s.Equal("test", *metadata.APIKey)
			s.Require().Len(reports, 1)

			r := reports[0]
			s.Equal(int64(1405602028568), r.Timestamp)
			s.Equal("Some Carrier", *r.Carrier)
			s.Equal(int64(234), *r.HomeMobileCountryCode)
			s.Equal(51.5, r.Position.Latitude)
			s.Require().Len(r.CellTowers, 1)
			s.Equal("wcdma", *r.CellTowers[0].RadioType)
			s.Equal(int64(12345), *r.CellTowers[0].CellID)
			return nil
		}).Times(1)

	w := s.post("/v2/geosubmit?key=test", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{}`, w.Body.String())
	s.NotEmpty(w.Header().Get("X-Request-Id"))
	s.Equal(int64(1), s.counter(metricUploadedBatches))
	s.Equal(int64(1), s.counter(metricUploadedReports))
}

func (s *GeosubmitTestSuite) TestWithoutKey() {
	s.queueMock.EXPECT().Enqueue(gomock.Any(), schema.SubmissionMetadata{}, gomock.Len(1)).Return(nil).Times(1)

	w := s.post("/v2/geosubmit", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *GeosubmitTestSuite) TestUnknownKeyIsDropped() {
	s.storeMock.EXPECT().GetAPIKey("nope").Return(nil, store.ErrAPIKeyNotFound).Times(1)
	s.queueMock.EXPECT().Enqueue(gomock.Any(), schema.SubmissionMetadata{}, gomock.Len(1)).Return(nil).Times(1)

	w := s.post("/v2/geosubmit?key=nope", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *GeosubmitTestSuite) TestKeyWithoutSubmitPermission() {
	s.storeMock.EXPECT().GetAPIKey("readonly").Return(&schema.APIKey{ValidKey: "readonly"}, nil).Times(1)
	s.queueMock.EXPECT().Enqueue(gomock.Any(), schema.SubmissionMetadata{}, gomock.Len(1)).Return(nil).Times(1)

	w := s.post("/v2/geosubmit?key=readonly", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *GeosubmitTestSuite) TestKeyStoreError() {
	s.storeMock.EXPECT().GetAPIKey("test").Return(nil, errors.New("db down")).Times(1)

	w := s.post("/v2/geosubmit?key=test", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *GeosubmitTestSuite) TestBatchSkipsBadItem() {
	items := make([]interface{}, 0, 11)
	for i := 0; i < 10; i++ {
		items = append(items, map[string]interface{}{
			"position":         map[string]interface{}{"latitude": 1.5, "longitude": 2.5},
			"wifiAccessPoints": []interface{}{map[string]interface{}{"macAddress": "0123456789ab"}},
		})
	}
	items = append(items, map[string]interface{}{"latitude": 10.0, "longitude": 10.0, "whatever": "xx"})

	s.queueMock.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Len(10)).Return(nil).Times(1)

	w := s.post("/v2/geosubmit", map[string]interface{}{"items": items})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(10), s.counter(metricUploadedReports))
	s.Equal(int64(1), s.counter(metricDroppedReports))
}

func (s *GeosubmitTestSuite) TestTypeMismatchRejectsBatch() {
	s.queueMock.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := s.post("/v2/geosubmit", map[string]interface{}{
		"items": []interface{}{
			cellItem(),
			map[string]interface{}{
				"position":         map[string]interface{}{"latitude": 1.5, "longitude": 2.5},
				"wifiAccessPoints": []interface{}{map[string]interface{}{"macAddress": 10}},
			},
		},
	})

	s.Equal(http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(errorInvalidReport, resp)
	s.Equal(int64(1), s.counter(metricRejectedBatches))
}

func (s *GeosubmitTestSuite) TestQueueFailure() {
	s.queueMock.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(1)

	w := s.post("/v2/geosubmit", map[string]interface{}{
		"items": []interface{}{cellItem()},
	})

	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal(int64(1), s.counter(metricQueueErrors))
}

func (s *GeosubmitTestSuite) TestMalformedBody() {
	w := s.post("/v2/geosubmit", `{"items": [`)
	s.Equal(http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(errorCannotParseRequest, resp)
}

func (s *GeosubmitTestSuite) TestMissingItems() {
	w := s.post("/v2/geosubmit", `{"reports": []}`)
	s.Equal(http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(errorInvalidParameters, resp)
}

func (s *GeosubmitTestSuite) TestBodyTooLarge() {
	server := NewServer(nil, s.queueMock, s.metrics, nil)
	server.maxBodyBytes = 64
	router := server.setupRouter()

	body := `{"items": [{"position": {"latitude": 1.5, "longitude": 2.5}, "carrier": "` +
		strings.Repeat("x", 128) + `"}]}`
	req := httptest.NewRequest("POST", "/v2/geosubmit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (s *GeosubmitTestSuite) TestEmptyItems() {
	s.queueMock.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Len(0)).Return(nil).Times(1)

	w := s.post("/v2/geosubmit", `{"items": []}`)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{}`, w.Body.String())
}

func TestGeosubmitTestSuite(t *testing.T) {
	suite.Run(t, new(GeosubmitTestSuite))
}
