package devnode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"landreg/internal/crypto"
	"landreg/internal/domain"
	"landreg/internal/logging"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8080"

// APIPrefix is the path the node API is served under.
const APIPrefix = "/v1"

const (
	registryResource = "Registry"
	parcelResource   = "LandParcel"
)

// Server serves a Registry over the node REST API.
type Server struct {
	registry     *Registry
	router       *mux.Router
	logger       *zap.Logger
	now          func() time.Time
	disableViews bool

	transactions *prometheus.CounterVec
	gatherer     prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithoutViews makes /views answer 404 so clients exercise their table
// fallback.
func WithoutViews() Option { return func(s *Server) { s.disableViews = true } }

// WithLogger sets the access and error logger.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = logging.OrNop(l) } }

// WithClock overrides the clock used for transaction expiry.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New returns a server for a fresh registry published under module.
func New(module domain.ModuleRef, opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		registry: NewRegistry(module),
		router:   mux.NewRouter(),
		logger:   zap.NewNop(),
		now:      time.Now,
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landreg",
			Subsystem: "devnode",
			Name:      "transactions_total",
			Help:      "Submitted transactions by entry function and outcome.",
		}, []string{"function", "outcome"}),
		gatherer: reg,
	}
	reg.MustRegister(s.transactions)
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Registry exposes the emulated module state.
func (s *Server) Registry() *Registry { return s.registry }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(s.accessLog)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/accounts/{address}", s.handleAccount).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{address}/resource/{type}", s.handleResource).Methods(http.MethodGet)
	api.HandleFunc("/tables/{handle}/item", s.handleTableItem).Methods(http.MethodPost)
	api.HandleFunc("/views", s.handleView).Methods(http.MethodPost)
	api.HandleFunc("/transactions/encode_submission", s.handleEncode).Methods(http.MethodPost)
	api.HandleFunc("/transactions", s.handleSubmit).Methods(http.MethodPost)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()
	s.logger.Info("devnode listening",
		zap.String("addr", addr),
		zap.Stringer("module", s.registry.Module()),
		zap.Bool("views", !s.disableViews),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// ---------- reads ----------

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr := domain.Address(mux.Vars(r)["address"]).Normalize()
	writeJSON(w, http.StatusOK, map[string]string{
		"sequence_number":    strconv.FormatUint(s.registry.SequenceNumber(addr), 10),
		"authentication_key": addr.String(),
	})
}

func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	module := s.registry.Module()
	if domain.Address(vars["address"]).Normalize() != module.Address ||
		vars["type"] != module.Member(registryResource) {
		writeError(w, http.StatusNotFound, "resource_not_found",
			fmt.Sprintf("Resource not found by Address(%s), Struct tag(%s)", vars["address"], vars["type"]))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type": vars["type"],
		"data": map[string]any{
			"next_parcel_id": strconv.FormatUint(s.registry.NextID(), 10),
			"parcels":        map[string]string{"handle": s.registry.TableHandle()},
		},
	})
}

func (s *Server) handleTableItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		KeyType   string `json:"key_type"`
		ValueType string `json:"value_type"`
		Key       string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if mux.Vars(r)["handle"] != s.registry.TableHandle() ||
		req.KeyType != "u64" ||
		req.ValueType != s.registry.Module().Member(parcelResource) {
		writeError(w, http.StatusNotFound, "table_item_not_found", "Table Item not found")
		return
	}
	id, err := domain.ParseParcelID(req.Key)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	p, ok := s.registry.Parcel(id)
	if !ok {
		writeError(w, http.StatusNotFound, "table_item_not_found",
			fmt.Sprintf("Table Item not found by Table handle(%s), Key(%s)", s.registry.TableHandle(), id))
		return
	}
	writeJSON(w, http.StatusOK, encodeParcel(p))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if s.disableViews {
		writeError(w, http.StatusNotFound, "web_framework_error", "views are disabled on this node")
		return
	}
	var req domain.TransactionPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	name, err := s.registry.member(req.Function)
	if err != nil || name != fnGetParcel {
		writeError(w, http.StatusBadRequest, "invalid_input", fmt.Sprintf("function %s is not a view function", req.Function))
		return
	}
	if len(req.Args) != 1 {
		writeError(w, http.StatusBadRequest, "invalid_input", "get_parcel takes 1 argument")
		return
	}
	id, err := domain.ParseParcelID(req.Args[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	p, ok := s.registry.Parcel(id)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input",
			fmt.Sprintf("Move abort in %s: %v", req.Function, ErrParcelNotFound))
		return
	}
	writeJSON(w, http.StatusOK, []any{encodeParcel(p)})
}

// ---------- writes ----------

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var tx domain.UnsignedTransaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	msg, err := signingMessage(tx)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, crypto.Hex(msg))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var tx domain.SignedTransaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	function := tx.Payload.Function
	log := s.logger.With(zap.String("function", function), zap.Stringer("sender", tx.Sender))

	seq, err := s.verify(tx)
	if err != nil {
		s.transactions.WithLabelValues(function, "rejected").Inc()
		log.Info("transaction rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid_transaction", err.Error())
		return
	}
	if err := s.registry.Execute(tx.Sender, seq, function, tx.Payload.Arguments); err != nil {
		s.transactions.WithLabelValues(function, "aborted").Inc()
		log.Info("transaction aborted", zap.Error(err))
		writeError(w, http.StatusBadRequest, "vm_error", "Move abort: "+err.Error())
		return
	}
	s.transactions.WithLabelValues(function, "committed").Inc()

	hash, err := transactionHash(tx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	log.Info("transaction committed", zap.String("hash", hash), zap.Uint64("sequence_number", seq))
	writeJSON(w, http.StatusAccepted, domain.PendingTransaction{
		Hash:           hash,
		Sender:         tx.Sender.Normalize(),
		SequenceNumber: tx.SequenceNumber,
	})
}

// verify checks everything about tx except the entry function itself and
// returns its sequence number.
func (s *Server) verify(tx domain.SignedTransaction) (uint64, error) {
	if tx.Payload.Type != "entry_function_payload" {
		return 0, fmt.Errorf("unsupported payload type %q", tx.Payload.Type)
	}
	if tx.Signature.Type != "ed25519_signature" {
		return 0, fmt.Errorf("unsupported signature type %q", tx.Signature.Type)
	}
	seq, err := strconv.ParseUint(tx.SequenceNumber, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sequence_number: %w", err)
	}
	exp, err := strconv.ParseInt(tx.ExpirationTimestampSecs, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expiration_timestamp_secs: %w", err)
	}
	if exp <= s.now().Unix() {
		return 0, errors.New("TRANSACTION_EXPIRED")
	}

	pub, err := crypto.FromHex(tx.Signature.PublicKey)
	if err != nil {
		return 0, fmt.Errorf("public_key: %w", err)
	}
	sig, err := crypto.FromHex(tx.Signature.Signature)
	if err != nil {
		return 0, fmt.Errorf("signature: %w", err)
	}
	if crypto.AccountAddress(pub) != tx.Sender.Normalize() {
		return 0, errors.New("INVALID_AUTH_KEY: public key does not match sender")
	}
	msg, err := signingMessage(tx.UnsignedTransaction)
	if err != nil {
		return 0, err
	}
	if !crypto.VerifyEd25519(pub, msg, sig) {
		return 0, errors.New("INVALID_SIGNATURE")
	}
	return seq, nil
}

// ---------- helpers ----------

// parcelJSON renders u64 fields as decimal strings, as node APIs do.
type parcelJSON struct {
	ID           string         `json:"id"`
	KhasraNumber string         `json:"khasra_number"`
	DocumentCID  string         `json:"document_cid"`
	AreaSqm      string         `json:"area_sqm"`
	Notes        string         `json:"notes"`
	Village      string         `json:"village"`
	Tehsil       string         `json:"tehsil"`
	District     string         `json:"district"`
	Owner        domain.Address `json:"owner"`
	Status       uint8          `json:"status"`
}

func encodeParcel(p domain.LandParcel) parcelJSON {
	return parcelJSON{
		ID:           p.ID.String(),
		KhasraNumber: p.KhasraNumber,
		DocumentCID:  p.DocumentCID,
		AreaSqm:      strconv.FormatUint(p.AreaSqm, 10),
		Notes:        p.Notes,
		Village:      p.Village,
		Tehsil:       p.Tehsil,
		District:     p.District,
		Owner:        p.Owner,
		Status:       uint8(p.Status),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"message":       msg,
		"error_code":    code,
		"vm_error_code": nil,
	})
}

// accessLog records method, path, status and duration for each request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", strings.TrimPrefix(r.URL.Path, APIPrefix)),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
