package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubService returns canned responses so handler behavior can be tested in
// isolation from the parsing and assembly pipeline.
type stubService struct {
	generateResp *types.GenerateResponse
	parseResp    *types.ParseResponse
	convertResp  *types.ConvertResponse
	detectResp   *types.DetectResponse
	err          error
}

func (s *stubService) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	return s.generateResp, s.err
}

func (s *stubService) Parse(ctx context.Context, req *types.ParseRequest) (*types.ParseResponse, error) {
	return s.parseResp, s.err
}

func (s *stubService) Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error) {
	return s.convertResp, s.err
}

func (s *stubService) Detect(ctx context.Context, queryString string) (*types.DetectResponse, error) {
	return s.detectResp, s.err
}

func queryRouter(svc *stubService) *gin.Engine {
	h := NewQueryHandler(svc)
	r := gin.New()
	q := r.Group("/api/v1/query")
	q.POST("/generate", h.Generate)
	q.POST("/parse", h.Parse)
	q.POST("/convert", h.Convert)
	q.POST("/detect", h.Detect)
	return r
}

func doJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerate_Success(t *testing.T) {
	svc := &stubService{generateResp: &types.GenerateResponse{
		QueryStringDisplay: "(solar cell)",
		URL:                "https://patents.google.com/?q=(solar+cell)",
	}}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/generate", types.GenerateRequest{
		Format:           types.DialectGoogle,
		SearchConditions: []types.SearchCondition{types.NewTextConditionWithText("solar cell")},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "(solar cell)", resp.QueryStringDisplay)
}

func TestGenerate_MalformedBody(t *testing.T) {
	r := queryRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMON_002")
}

func TestGenerate_ServiceErrorMapsToStatus(t *testing.T) {
	svc := &stubService{err: errors.New(errors.ErrCodeParseUnsupportedDialect, "unsupported dialect")}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/generate", types.GenerateRequest{Format: "klingon"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PARSE_002", body.Code)
	assert.Equal(t, "unsupported dialect", body.Message)
}

func TestGenerate_UnknownErrorIsMasked(t *testing.T) {
	svc := &stubService{err: assert.AnError}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/generate", types.GenerateRequest{Format: types.DialectGoogle})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestParse_Success(t *testing.T) {
	svc := &stubService{parseResp: &types.ParseResponse{
		SearchConditions: []types.SearchCondition{types.NewTextConditionWithText("battery")},
		GoogleLikeFields: types.NewCommonFields(),
		USPTOSettings:    types.DefaultUSPTOSettings(),
	}}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/parse", types.ParseRequest{
		Format:      types.DialectGoogle,
		QueryString: "battery",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.SearchConditions, 1)
	assert.Equal(t, "battery", resp.SearchConditions[0].Text.Text)
}

func TestConvert_Success(t *testing.T) {
	svc := &stubService{convertResp: &types.ConvertResponse{ConvertedText: "TTL/solar"}}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/convert", types.ConvertRequest{
		QueryString:  "TI=(solar)",
		SourceFormat: types.DialectGoogle,
		TargetFormat: types.DialectUSPTO,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TTL/solar")
}

func TestDetect_Success(t *testing.T) {
	svc := &stubService{detectResp: &types.DetectResponse{Dialect: types.DialectUSPTO}}
	r := queryRouter(svc)

	rec := doJSON(t, r, "/api/v1/query/detect", DetectRequest{QueryString: "TTL/(solar ADJ cell)"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.DialectUSPTO, resp.Dialect)
}

//Personal.AI order the ending
