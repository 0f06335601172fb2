package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://cms.example.test"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient(testBaseURL, "test-token", WithHTTPClient(hc))
}

// pageBody builds a Strapi response page with count items starting at firstID,
// each wrapped in the v4 attributes envelope.
func pageBody(t *testing.T, firstID, count, page, pageCount int, withMeta bool) string {
	t.Helper()
	items := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		id := firstID + i
		items = append(items, map[string]any{
			"id": id,
			"attributes": map[string]any{
				"firstName":      "Person",
				"lastName":       strconv.Itoa(id),
				"email":          fmt.Sprintf("person%d@example.test", id),
				"documentNumber": fmt.Sprintf("DOC-%d", id),
				"headquarter":    "Managua",
				"role":           "Estudiante",
				"createdAt":      "2025-01-02T03:04:05.000Z",
				"updatedAt":      "2025-01-02T03:04:05.000Z",
			},
		})
	}
	body := map[string]any{"data": items}
	if withMeta {
		body["meta"] = map[string]any{
			"pagination": map[string]any{
				"page":      page,
				"pageSize":  100,
				"pageCount": pageCount,
				"total":     (pageCount-1)*100 + count,
			},
		}
	} else {
		body["meta"] = map[string]any{}
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return string(raw)
}

func registerPagedResponder(t *testing.T, pages map[int]string) {
	t.Helper()
	httpmock.RegisterResponder(http.MethodGet, "=~^"+testBaseURL+"/api/agreements",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
			page, _ := strconv.Atoi(req.URL.Query().Get("pagination[page]"))
			body, ok := pages[page]
			if !ok {
				return httpmock.NewStringResponse(http.StatusNotFound, `{"error":"no such page"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, body), nil
		})
}

func TestFetchAll_PaginatesToPartialLastPage(t *testing.T) {
	client := newMockedClient(t)

	registerPagedResponder(t, map[int]string{
		1: pageBody(t, 1, 100, 1, 3, true),
		2: pageBody(t, 101, 100, 2, 3, true),
		3: pageBody(t, 201, 37, 3, 3, true),
	})

	records, err := client.FetchAll(context.Background(), "api/agreements", nil)

	require.NoError(t, err)
	assert.Len(t, records, 237)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, int64(237), records[236].ID)
}

func TestFetchAll_NoPaginationMeta_StopsOnShortPage(t *testing.T) {
	client := newMockedClient(t)

	registerPagedResponder(t, map[int]string{
		1: pageBody(t, 1, 100, 1, 0, false),
		2: pageBody(t, 101, 42, 2, 0, false),
	})

	records, err := client.FetchAll(context.Background(), "api/agreements", nil)

	require.NoError(t, err)
	assert.Len(t, records, 142)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestFetchAll_IncrementalFilters(t *testing.T) {
	client := newMockedClient(t)

	since := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var seen []string
	httpmock.RegisterResponder(http.MethodGet, "=~^"+testBaseURL+"/api/agreements",
		func(req *http.Request) (*http.Response, error) {
			seen = append(seen,
				req.URL.Query().Get("filters[$or][0][createdAt][$gt]"),
				req.URL.Query().Get("filters[$or][1][updatedAt][$gt]"))
			return httpmock.NewStringResponse(http.StatusOK, pageBody(t, 1, 5, 1, 1, true)), nil
		})

	_, err := client.FetchAll(context.Background(), "api/agreements", &since)

	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "2025-06-01T12:00:00Z", seen[0])
	assert.Equal(t, "2025-06-01T12:00:00Z", seen[1])
}

func TestFetchAll_NoSince_NoFilters(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, "=~^"+testBaseURL+"/api/agreements",
		func(req *http.Request) (*http.Response, error) {
			assert.False(t, req.URL.Query().Has("filters[$or][0][createdAt][$gt]"))
			assert.Equal(t, "100", req.URL.Query().Get("pagination[pageSize]"))
			assert.Equal(t, "*", req.URL.Query().Get("populate"))
			return httpmock.NewStringResponse(http.StatusOK, pageBody(t, 1, 0, 1, 1, true)), nil
		})

	records, err := client.FetchAll(context.Background(), "api/agreements", nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchAll_NonSuccessAborts(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodGet, "=~^"+testBaseURL+"/api/agreements",
		httpmock.NewStringResponder(http.StatusBadGateway, `{"error":"upstream down"}`))

	records, err := client.FetchAll(context.Background(), "api/agreements", nil)

	require.Error(t, err)
	assert.Nil(t, records)
	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestFlattenItem(t *testing.T) {
	t.Run("nested attributes envelope", func(t *testing.T) {
		raw := json.RawMessage(`{
			"id": 7,
			"attributes": {
				"firstName": "Ana",
				"lastName": "López",
				"email": "Ana.Lopez@Example.test",
				"documentNumber": "001-070890-0001X",
				"headquarter": "León",
				"role": "Alumno",
				"volunteeringAgreement": true,
				"ethicsAgreement": true,
				"mailingAgreement": false,
				"ageVerification": true,
				"signature": "uploads/sig_7.png",
				"createdAt": "2024-11-20T10:00:00.000Z",
				"updatedAt": "2025-01-15T09:30:00.000Z"
			}
		}`)

		item, err := flattenItem(raw)

		require.NoError(t, err)
		assert.Equal(t, int64(7), item.ID)
		assert.Equal(t, "Ana", item.FirstName)
		assert.Equal(t, "León", item.Headquarter)
		assert.True(t, item.Volunteering)
		assert.False(t, item.Mailing)
		assert.Equal(t, "uploads/sig_7.png", item.SignatureRef)
	})

	t.Run("already flat", func(t *testing.T) {
		raw := json.RawMessage(`{"id": 9, "email": "flat@example.test", "role": "teacher"}`)

		item, err := flattenItem(raw)

		require.NoError(t, err)
		assert.Equal(t, int64(9), item.ID)
		assert.Equal(t, "flat@example.test", item.Email)
	})
}
