package devnode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/sha3"

	"landreg/internal/crypto"
	"landreg/internal/domain"
)

// Entry functions the registry module exposes.
const (
	fnSubmitLand = "submit_land"
	fnApprove    = "approve"
	fnReject     = "reject"
	fnDispute    = "dispute"
	fnTransfer   = "transfer_ownership"
	fnGetParcel  = "get_parcel"
)

// Errors returned by Execute. They surface to clients as Move aborts.
var (
	ErrParcelNotFound    = errors.New("parcel not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOwner          = errors.New("sender does not own parcel")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrBadArguments      = errors.New("bad arguments")
)

// Registry is the emulated registry module state.
type Registry struct {
	module domain.ModuleRef
	handle string

	mu       sync.RWMutex
	nextID   uint64
	parcels  map[domain.ParcelID]domain.LandParcel
	accounts map[domain.Address]uint64
}

// NewRegistry returns an empty registry published under module.
func NewRegistry(module domain.ModuleRef) *Registry {
	module.Address = module.Address.Normalize()
	h := sha3.Sum256([]byte(module.String() + "::parcels"))
	return &Registry{
		module:   module,
		handle:   crypto.Hex(h[:]),
		parcels:  make(map[domain.ParcelID]domain.LandParcel),
		accounts: make(map[domain.Address]uint64),
	}
}

// Module returns the module the registry is published under.
func (r *Registry) Module() domain.ModuleRef { return r.module }

// TableHandle returns the handle of the parcels table.
func (r *Registry) TableHandle() string { return r.handle }

// NextID returns the identifier the next submitted parcel will get.
func (r *Registry) NextID() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID
}

// Parcel returns the parcel stored under id.
func (r *Registry) Parcel(id domain.ParcelID) (domain.LandParcel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parcels[id]
	return p, ok
}

// SequenceNumber returns the account's next sequence number. Unknown
// accounts start at zero.
func (r *Registry) SequenceNumber(addr domain.Address) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accounts[addr.Normalize()]
}

// Execute applies one entry function call from sender and bumps the
// sender's sequence number. seq must match the account's current value.
func (r *Registry) Execute(sender domain.Address, seq uint64, function string, args []string) error {
	name, err := r.member(function)
	if err != nil {
		return err
	}
	sender = sender.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	if want := r.accounts[sender]; seq != want {
		return fmt.Errorf("sequence number %d does not match account sequence number %d", seq, want)
	}
	if err := r.apply(sender, name, args); err != nil {
		return err
	}
	r.accounts[sender]++
	return nil
}

func (r *Registry) apply(sender domain.Address, name string, args []string) error {
	switch name {
	case fnSubmitLand:
		if len(args) != 7 {
			return fmt.Errorf("%w: %s takes 7 arguments, got %d", ErrBadArguments, name, len(args))
		}
		area, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: area_sqm: %v", ErrBadArguments, err)
		}
		id := domain.ParcelID(r.nextID)
		r.parcels[id] = domain.LandParcel{
			ID:           id,
			KhasraNumber: args[0],
			DocumentCID:  args[1],
			AreaSqm:      area,
			Notes:        args[3],
			Village:      args[4],
			Tehsil:       args[5],
			District:     args[6],
			Owner:        sender,
			Status:       domain.StatusPending,
		}
		r.nextID++
		return nil

	case fnApprove, fnReject, fnDispute:
		if len(args) != 1 {
			return fmt.Errorf("%w: %s takes 1 argument, got %d", ErrBadArguments, name, len(args))
		}
		p, err := r.lookup(args[0])
		if err != nil {
			return err
		}
		next, err := transition(p.Status, name)
		if err != nil {
			return err
		}
		p.Status = next
		r.parcels[p.ID] = p
		return nil

	case fnTransfer:
		if len(args) != 2 {
			return fmt.Errorf("%w: %s takes 2 arguments, got %d", ErrBadArguments, name, len(args))
		}
		p, err := r.lookup(args[0])
		if err != nil {
			return err
		}
		if p.Owner != sender {
			return ErrNotOwner
		}
		if p.Status != domain.StatusApproved {
			return fmt.Errorf("%w: cannot transfer %s parcel", ErrInvalidTransition, p.Status)
		}
		p.Owner = domain.Address(args[1]).Normalize()
		r.parcels[p.ID] = p
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFunction, name)
}

// transition is the parcel lifecycle: pending parcels can be approved,
// rejected or disputed; approved parcels can still be disputed.
func transition(from domain.ParcelStatus, action string) (domain.ParcelStatus, error) {
	switch {
	case action == fnApprove && from == domain.StatusPending:
		return domain.StatusApproved, nil
	case action == fnReject && from == domain.StatusPending:
		return domain.StatusRejected, nil
	case action == fnDispute && (from == domain.StatusPending || from == domain.StatusApproved):
		return domain.StatusDisputed, nil
	}
	return from, fmt.Errorf("%w: %s on %s parcel", ErrInvalidTransition, action, from)
}

func (r *Registry) lookup(arg string) (domain.LandParcel, error) {
	id, err := domain.ParseParcelID(arg)
	if err != nil {
		return domain.LandParcel{}, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	p, ok := r.parcels[id]
	if !ok {
		return domain.LandParcel{}, fmt.Errorf("%w: %s", ErrParcelNotFound, id)
	}
	return p, nil
}

// member strips the "<address>::<module>::" prefix from function.
func (r *Registry) member(function string) (string, error) {
	parts := strings.Split(function, "::")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrUnknownFunction, function)
	}
	if domain.Address(parts[0]).Normalize() != r.module.Address || parts[1] != r.module.Name {
		return "", fmt.Errorf("%w: %q is not in module %s", ErrUnknownFunction, function, r.module)
	}
	return parts[2], nil
}
