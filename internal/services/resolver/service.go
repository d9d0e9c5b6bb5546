package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"landreg/internal/domain"
	"landreg/internal/logging"
	"landreg/internal/metrics"
)

// Module members the resolver touches.
const (
	registryResource  = "Registry"
	parcelResource    = "LandParcel"
	getParcelFunction = "get_parcel"
	parcelKeyType     = "u64"
	viewsPath         = "/views"
)

var (
	// ErrNextIDNotFound is returned when the Registry has no next_parcel_id
	// under any known shape.
	ErrNextIDNotFound = errors.New("next_parcel_id not found in Registry resource")
	// ErrTableHandleNotFound is returned when the Registry has no parcels
	// table handle under any known shape.
	ErrTableHandleNotFound = errors.New("parcels table handle not found in Registry resource")
	// ErrMalformedViewResponse is returned when the view call succeeds but
	// its body is not JSON.
	ErrMalformedViewResponse = errors.New("view response is not valid JSON")
)

// ResolutionError wraps every read-path failure with what was being read.
type ResolutionError struct {
	// Op describes the attempted read, e.g. "fetch parcel 42".
	Op  string
	Err error
}

func (e *ResolutionError) Error() string { return fmt.Sprintf("failed to %s: %v", e.Op, e.Err) }

func (e *ResolutionError) Unwrap() error { return e.Err }

// Service resolves registry state through a ChainClient.
//
// It keeps no mutable state, so one Service can serve concurrent callers.
type Service struct {
	module  domain.ModuleRef
	chain   domain.ChainClient
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New returns a resolver for module using chain. logger and m may be nil.
func New(module domain.ModuleRef, chain domain.ChainClient, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		module:  module,
		chain:   chain,
		logger:  logging.OrNop(logger),
		metrics: m,
	}
}

// GetNextID returns the registry's next parcel identifier.
func (s *Service) GetNextID(ctx context.Context) (uint64, error) {
	const op = "read next parcel id from chain"

	id, err := s.getNextID(ctx)
	if err != nil {
		s.metrics.ObserveResolution("next_id", "", metrics.OutcomeError)
		return 0, &ResolutionError{Op: op, Err: err}
	}
	s.metrics.ObserveResolution("next_id", "", metrics.OutcomeOK)
	return id, nil
}

func (s *Service) getNextID(ctx context.Context) (uint64, error) {
	res, err := s.registry(ctx)
	if err != nil {
		return 0, err
	}
	v, path, ok := firstMatch(map[string]any(res), nextIDPaths, anyValue)
	if !ok {
		return 0, ErrNextIDNotFound
	}
	id, err := cast.ToUint64E(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Debug("resolved next parcel id", zap.Stringer("path", path), zap.Uint64("next_parcel_id", id))
	return id, nil
}

// GetParcel returns the on-chain record for id, via the view function when
// the node serves it and via the registry table otherwise.
func (s *Service) GetParcel(ctx context.Context, id domain.ParcelID) (domain.ParcelRecord, error) {
	rec, err := s.getParcel(ctx, id)
	if err != nil {
		s.metrics.ObserveResolution("get_parcel", string(rec.Source), metrics.OutcomeError)
		return domain.ParcelRecord{}, &ResolutionError{Op: "fetch parcel " + id.String(), Err: err}
	}
	s.metrics.ObserveResolution("get_parcel", string(rec.Source), metrics.OutcomeOK)
	return rec, nil
}

func (s *Service) getParcel(ctx context.Context, id domain.ParcelID) (domain.ParcelRecord, error) {
	log := s.logger.With(zap.Stringer("parcel_id", id))

	raw, served, err := s.callView(ctx, id)
	if err != nil {
		return domain.ParcelRecord{Source: domain.SourceView}, err
	}
	if served {
		log.Debug("parcel resolved", zap.String("tier", string(domain.SourceView)))
		return domain.ParcelRecord{ID: id, Source: domain.SourceView, Raw: raw}, nil
	}

	raw, err = s.lookupTable(ctx, id)
	if err != nil {
		return domain.ParcelRecord{Source: domain.SourceTable}, err
	}
	log.Debug("parcel resolved", zap.String("tier", string(domain.SourceTable)))
	return domain.ParcelRecord{ID: id, Source: domain.SourceTable, Raw: raw}, nil
}

// callView runs get_parcel through the node's view endpoint. served is
// false when the node answered with a non-2xx status.
func (s *Service) callView(ctx context.Context, id domain.ParcelID) (raw json.RawMessage, served bool, err error) {
	payload := domain.NewEntryFunctionPayload(s.module, getParcelFunction, id.String())
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.chain.NodeURL()+viewsPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.chain.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		s.logger.Debug("view call not served, using table lookup",
			zap.Stringer("parcel_id", id),
			zap.Int("status", resp.StatusCode),
		)
		return nil, false, nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read view response: %w", err)
	}
	if !json.Valid(b) {
		return nil, false, ErrMalformedViewResponse
	}
	return json.RawMessage(b), true, nil
}

// lookupTable reads the parcel straight from the registry's parcels table.
func (s *Service) lookupTable(ctx context.Context, id domain.ParcelID) (json.RawMessage, error) {
	res, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	v, path, ok := firstMatch(map[string]any(res), parcelsHandlePaths, tableHandle)
	if !ok {
		return nil, ErrTableHandleNotFound
	}
	handle := v.(string)
	s.logger.Debug("parcels table handle", zap.Stringer("path", path), zap.String("handle", handle))

	return s.chain.GetTableItem(ctx, handle, parcelKeyType, s.module.Member(parcelResource), id.String())
}

func (s *Service) registry(ctx context.Context) (domain.Resource, error) {
	return s.chain.GetAccountResource(ctx, s.module.Address, s.module.Member(registryResource))
}

// Compile-time assertion that Service implements domain.ParcelResolver.
var _ domain.ParcelResolver = (*Service)(nil)
