package resolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"landreg/internal/domain"
	"landreg/internal/services/resolver"
)

var module = domain.ModuleRef{Address: "0xcafe", Name: "land_registry"}

type tableCall struct {
	handle, keyType, valueType, key string
}

// fakeChain is an in-memory domain.ChainClient that records every call.
type fakeChain struct {
	viewStatus int
	viewBody   string
	viewErr    error
	viewReqs   []domain.TransactionPayload

	resource    domain.Resource
	resourceErr error
	resourceReq []string

	tableItem  json.RawMessage
	tableErr   error
	tableCalls []tableCall
}

func (f *fakeChain) NodeURL() string { return "http://node.test/v1" }

func (f *fakeChain) Do(req *http.Request) (*http.Response, error) {
	if req.URL.String() != "http://node.test/v1/views" {
		return nil, errors.New("unexpected url " + req.URL.String())
	}
	var p domain.TransactionPayload
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		return nil, err
	}
	f.viewReqs = append(f.viewReqs, p)
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return &http.Response{
		StatusCode: f.viewStatus,
		Status:     http.StatusText(f.viewStatus),
		Body:       io.NopCloser(strings.NewReader(f.viewBody)),
	}, nil
}

func (f *fakeChain) GetAccountResource(_ context.Context, addr domain.Address, typ string) (domain.Resource, error) {
	f.resourceReq = append(f.resourceReq, addr.String()+" "+typ)
	return f.resource, f.resourceErr
}

func (f *fakeChain) GetTableItem(_ context.Context, handle, keyType, valueType, key string) (json.RawMessage, error) {
	f.tableCalls = append(f.tableCalls, tableCall{handle, keyType, valueType, key})
	return f.tableItem, f.tableErr
}

func TestGetParcel_ViewTierWins(t *testing.T) {
	for _, id := range []domain.ParcelID{0, 1, 42, 18446744073709551615} {
		f := &fakeChain{viewStatus: http.StatusOK, viewBody: `[{"khasra_number":"12/3"}]`}
		svc := resolver.New(module, f, nil, nil)

		rec, err := svc.GetParcel(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, domain.SourceView, rec.Source)
		require.JSONEq(t, `[{"khasra_number":"12/3"}]`, string(rec.Raw))

		require.Len(t, f.viewReqs, 1)
		require.Equal(t, "0xcafe::land_registry::get_parcel", f.viewReqs[0].Function)
		require.Equal(t, []string{}, f.viewReqs[0].TypeArgs)
		require.Equal(t, []string{id.String()}, f.viewReqs[0].Args)
		require.Empty(t, f.tableCalls, "table tier must not run when the view call succeeds")
		require.Empty(t, f.resourceReq)
	}
}

func TestGetParcel_FallsBackOnNon2xx(t *testing.T) {
	shapes := map[string]domain.Resource{
		"data.parcels.handle": {"data": map[string]any{"parcels": map[string]any{"handle": "0xabc"}}},
		"data.parcels":        {"data": map[string]any{"parcels": "0xabc"}},
		"parcels":             {"parcels": "0xabc"},
	}
	for name, res := range shapes {
		t.Run(name, func(t *testing.T) {
			f := &fakeChain{
				viewStatus: http.StatusNotFound,
				viewBody:   `{"message":"function not found"}`,
				resource:   res,
				tableItem:  json.RawMessage(`{"khasra_number":"7"}`),
			}
			svc := resolver.New(module, f, nil, nil)

			rec, err := svc.GetParcel(context.Background(), 42)
			require.NoError(t, err)
			require.Equal(t, domain.SourceTable, rec.Source)
			require.Equal(t, []string{"0xcafe 0xcafe::land_registry::Registry"}, f.resourceReq)
			require.Equal(t, []tableCall{{
				handle:    "0xabc",
				keyType:   "u64",
				valueType: "0xcafe::land_registry::LandParcel",
				key:       "42",
			}}, f.tableCalls)
		})
	}
}

func TestGetParcel_HandleProbeOrder(t *testing.T) {
	f := &fakeChain{
		viewStatus: http.StatusBadRequest,
		resource: domain.Resource{
			"data":    map[string]any{"parcels": map[string]any{"handle": "0xfirst"}},
			"parcels": "0xlast",
		},
		tableItem: json.RawMessage(`{}`),
	}
	_, err := resolver.New(module, f, nil, nil).GetParcel(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "0xfirst", f.tableCalls[0].handle)
}

func TestGetParcel_MissingHandle(t *testing.T) {
	f := &fakeChain{
		viewStatus: http.StatusInternalServerError,
		resource:   domain.Resource{"data": map[string]any{"next_parcel_id": "3"}},
	}
	_, err := resolver.New(module, f, nil, nil).GetParcel(context.Background(), 9)

	var re *resolver.ResolutionError
	require.True(t, errors.As(err, &re))
	require.ErrorIs(t, err, resolver.ErrTableHandleNotFound)
	require.Equal(t, "failed to fetch parcel 9: parcels table handle not found in Registry resource", err.Error())
	require.Empty(t, f.tableCalls)
}

func TestGetParcel_TransportErrorSkipsFallback(t *testing.T) {
	f := &fakeChain{viewErr: errors.New("dial tcp: connection refused")}
	_, err := resolver.New(module, f, nil, nil).GetParcel(context.Background(), 5)

	var re *resolver.ResolutionError
	require.True(t, errors.As(err, &re))
	require.Contains(t, err.Error(), "parcel 5")
	require.Contains(t, err.Error(), "connection refused")
	require.Empty(t, f.resourceReq)
	require.Empty(t, f.tableCalls)
}

func TestGetParcel_TableErrorWrapped(t *testing.T) {
	f := &fakeChain{
		viewStatus: http.StatusNotFound,
		resource:   domain.Resource{"parcels": "0xabc"},
		tableErr:   errors.New("table item not found"),
	}
	_, err := resolver.New(module, f, nil, nil).GetParcel(context.Background(), 77)
	require.EqualError(t, err, "failed to fetch parcel 77: table item not found")
}

func TestGetParcel_MalformedViewBody(t *testing.T) {
	f := &fakeChain{viewStatus: http.StatusOK, viewBody: "<html>oops</html>"}
	_, err := resolver.New(module, f, nil, nil).GetParcel(context.Background(), 1)
	require.ErrorIs(t, err, resolver.ErrMalformedViewResponse)
	require.Empty(t, f.tableCalls)
}

func TestGetNextID_Shapes(t *testing.T) {
	cases := []struct {
		name string
		res  domain.Resource
		want uint64
	}{
		{"nested string", domain.Resource{"data": map[string]any{"next_parcel_id": "7"}}, 7},
		{"nested number", domain.Resource{"data": map[string]any{"next_parcel_id": json.Number("12")}}, 12},
		{"top level", domain.Resource{"next_parcel_id": float64(3)}, 3},
		{"nested wins", domain.Resource{"data": map[string]any{"next_parcel_id": "1"}, "next_parcel_id": "2"}, 1},
		{"zero", domain.Resource{"data": map[string]any{"next_parcel_id": "0"}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := resolver.New(module, &fakeChain{resource: tc.res}, nil, nil)
			got, err := svc.GetNextID(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGetNextID_Missing(t *testing.T) {
	svc := resolver.New(module, &fakeChain{resource: domain.Resource{"data": map[string]any{}}}, nil, nil)
	_, err := svc.GetNextID(context.Background())

	var re *resolver.ResolutionError
	require.True(t, errors.As(err, &re))
	require.ErrorIs(t, err, resolver.ErrNextIDNotFound)
	require.Equal(t, "failed to read next parcel id from chain: next_parcel_id not found in Registry resource", err.Error())
}

func TestGetNextID_TransportError(t *testing.T) {
	svc := resolver.New(module, &fakeChain{resourceErr: errors.New("timeout")}, nil, nil)
	_, err := svc.GetNextID(context.Background())
	require.EqualError(t, err, "failed to read next parcel id from chain: timeout")
}

func TestGetNextID_NotANumber(t *testing.T) {
	svc := resolver.New(module, &fakeChain{resource: domain.Resource{"next_parcel_id": "seven"}}, nil, nil)
	_, err := svc.GetNextID(context.Background())
	var re *resolver.ResolutionError
	require.True(t, errors.As(err, &re))
}
