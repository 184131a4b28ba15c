// Package query is the application service behind the query-builder API:
// generating dialect query strings from structured conditions, parsing raw
// strings back into builder state, translating between dialects, and
// detecting which dialect a string belongs to.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/PatQuery-Bridge/internal/application/assembler"
	"github.com/turtacn/PatQuery-Bridge/internal/application/converter"
	"github.com/turtacn/PatQuery-Bridge/internal/application/parser"
	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
	"github.com/turtacn/PatQuery-Bridge/internal/domain/dialect"
	"github.com/turtacn/PatQuery-Bridge/pkg/errors"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

const (
	cacheTTLGenerate = 5 * time.Minute
	cacheTTLParse    = 5 * time.Minute
	cacheTTLConvert  = 15 * time.Minute
)

// Cache is the subset of the cache layer this service needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error
}

// Logger is the structured logger surface used by the service.
type Logger interface {
	Info(ctx context.Context, msg string, keysAndValues ...interface{})
	Error(ctx context.Context, msg string, keysAndValues ...interface{})
	Warn(ctx context.Context, msg string, keysAndValues ...interface{})
	Debug(ctx context.Context, msg string, keysAndValues ...interface{})
}

// MetricsCollector receives the service's counters and latency observations.
type MetricsCollector interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// Service is the query-builder application service.
type Service interface {
	Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error)
	Parse(ctx context.Context, req *types.ParseRequest) (*types.ParseResponse, error)
	Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error)
	Detect(ctx context.Context, queryString string) (*types.DetectResponse, error)
}

type serviceImpl struct {
	cache   Cache
	logger  Logger
	metrics MetricsCollector
	sf      singleflight.Group
}

// NewService wires the query service.  All dependencies are required; pass the
// no-op implementations from testutil in tests.
func NewService(cache Cache, logger Logger, metrics MetricsCollector) Service {
	return &serviceImpl{cache: cache, logger: logger, metrics: metrics}
}

func (s *serviceImpl) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveHistogram("query_generate_latency", time.Since(start).Seconds(),
			map[string]string{"dialect": string(req.Format)})
	}()

	if !req.Format.Valid() {
		return nil, errors.New(errors.ErrCodeParseUnsupportedDialect, "generate requires a concrete dialect").
			WithDetail(string(req.Format))
	}

	cacheKey := s.cacheKey("generate", req)
	var cached types.GenerateResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.metrics.IncCounter("query_cache_hits", map[string]string{"method": "generate"})
		return &cached, nil
	}
	s.metrics.IncCounter("query_cache_misses", map[string]string{"method": "generate"})

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		return s.generate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	resp := v.(*types.GenerateResponse)

	go func(key string, data *types.GenerateResponse) {
		_ = s.cache.Set(context.Background(), key, data, cacheTTLGenerate)
	}(cacheKey, resp)

	return resp, nil
}

func (s *serviceImpl) generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	in := assembler.Input{
		Dialect:    req.Format,
		Conditions: req.SearchConditions,
	}
	if req.GoogleLikeFields != nil {
		in.Common = *req.GoogleLikeFields
	} else {
		in.Common = types.NewCommonFields()
	}
	if req.USPTOSettings != nil {
		in.USPTO = *req.USPTOSettings
	} else {
		in.USPTO = types.DefaultUSPTOSettings()
	}

	result, err := assembler.Assemble(in)
	if err != nil {
		s.logger.Warn(ctx, "query assembly rejected", "dialect", req.Format, "error", err)
		return nil, err
	}

	resp := &types.GenerateResponse{
		QueryStringDisplay: result.DisplayString,
		URL:                result.URL,
	}
	if artifact := s.astArtifact(ctx, req.Format, result.DisplayString); artifact != nil {
		resp.AST = artifact
	}
	return resp, nil
}

// astArtifact parses the assembled string back through the dialect parser so
// clients get a read-only view of the query structure.  Failures here only
// cost the debug artifact, never the response.
func (s *serviceImpl) astArtifact(ctx context.Context, format types.Dialect, display string) json.RawMessage {
	if display == "" {
		return nil
	}
	var root *ast.QueryRoot
	if format == types.DialectUSPTO {
		root = parser.ParseUSPTO(display)
	} else {
		root = parser.ParseGoogle(display)
	}
	raw, err := ast.Marshal(root)
	if err != nil {
		s.logger.Debug(ctx, "ast artifact serialization failed", "error", err)
		return nil
	}
	return raw
}

func (s *serviceImpl) Parse(ctx context.Context, req *types.ParseRequest) (*types.ParseResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveHistogram("query_parse_latency", time.Since(start).Seconds(),
			map[string]string{"dialect": string(req.Format)})
	}()

	if !req.Format.Valid() {
		return nil, errors.New(errors.ErrCodeParseUnsupportedDialect, "parse requires a concrete dialect").
			WithDetail(string(req.Format))
	}

	cacheKey := s.cacheKey("parse", req)
	var cached types.ParseResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.metrics.IncCounter("query_cache_hits", map[string]string{"method": "parse"})
		return &cached, nil
	}
	s.metrics.IncCounter("query_cache_misses", map[string]string{"method": "parse"})

	var root *ast.QueryRoot
	if req.Format == types.DialectUSPTO {
		root = parser.ParseUSPTO(req.QueryString)
	} else {
		root = parser.ParseGoogle(req.QueryString)
	}
	resp := parser.Extract(root, req.Format)

	go func(key string, data *types.ParseResponse) {
		_ = s.cache.Set(context.Background(), key, data, cacheTTLParse)
	}(cacheKey, resp)

	return resp, nil
}

func (s *serviceImpl) Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveHistogram("query_convert_latency", time.Since(start).Seconds(),
			map[string]string{
				"source": string(req.SourceFormat),
				"target": string(req.TargetFormat),
			})
	}()

	cacheKey := s.cacheKey("convert", req)
	var cached types.ConvertResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.metrics.IncCounter("query_cache_hits", map[string]string{"method": "convert"})
		return &cached, nil
	}
	s.metrics.IncCounter("query_cache_misses", map[string]string{"method": "convert"})

	resp, err := converter.Convert(*req)
	if err != nil {
		s.logger.Warn(ctx, "conversion rejected", "source", req.SourceFormat, "target", req.TargetFormat, "error", err)
		return nil, err
	}
	if resp.Error != "" {
		s.metrics.IncCounter("query_convert_lossy", map[string]string{
			"source": string(req.SourceFormat),
			"target": string(req.TargetFormat),
		})
	}

	go func(key string, data *types.ConvertResponse) {
		_ = s.cache.Set(context.Background(), key, data, cacheTTLConvert)
	}(cacheKey, resp)

	return resp, nil
}

func (s *serviceImpl) Detect(ctx context.Context, queryString string) (*types.DetectResponse, error) {
	detected := dialect.Detect(queryString)
	s.metrics.IncCounter("query_detect_total", map[string]string{"dialect": string(detected)})
	if detected == types.DialectUnknown {
		s.logger.Debug(ctx, "dialect detection inconclusive", "length", len(queryString))
	}
	return &types.DetectResponse{Dialect: detected}, nil
}

func (s *serviceImpl) cacheKey(method string, req interface{}) string {
	b, _ := json.Marshal(req)
	hash := sha256.Sum256(b)
	return fmt.Sprintf("patquery:query:%s:%s", method, hex.EncodeToString(hash[:]))
}

//Personal.AI order the ending
