package dataset

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerSummary(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHandler(&Dataset{Source: "stub", Records: []Record{
		{Date: day, Admissions: 100},
		{Date: day.AddDate(0, 0, 1), Admissions: 300},
	}})

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var s Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 300, s.LastAdmissions)
	assert.Equal(t, 200.0, s.MeanAdmissions)
}
