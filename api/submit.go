package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/bitmark-inc/geosubmit-api/submit"
)

// geosubmit accepts a batch of observation reports. Malformed single
// reports are skipped; a report with a wrongly typed field rejects the
// whole batch.
func (s *Server) geosubmit(c *gin.Context) {
	sw := s.metrics.Timer(metricSubmitLatency).Start()
	defer sw.Stop()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)

	var params struct {
		Items []interface{} `json:"items" binding:"required"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		var tooLarge *http.MaxBytesError
		var invalid validator.ValidationErrors
		switch {
		case errors.As(err, &tooLarge):
			abortWithEncoding(c, http.StatusRequestEntityTooLarge, errorRequestTooLarge, err)
		case errors.As(err, &invalid):
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		default:
			abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		}
		return
	}

	result, err := s.pipeline.Submit(c.Request.Context(), params.Items, apiKeyFromContext(c))
	if err != nil {
		if errors.Is(err, submit.ErrRejected) {
			s.metrics.Counter(metricRejectedBatches).Inc(1)
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidReport, err)
			return
		}

		s.metrics.Counter(metricQueueErrors).Inc(1)
		log.WithField("request_id", c.GetString("request_id")).Error(err)
		sentry.CaptureException(err)
		abortWithEncoding(c, http.StatusServiceUnavailable, errorServiceUnavailable, err)
		return
	}

	s.countAccepted(result)
	c.JSON(http.StatusOK, gin.H{})
}
