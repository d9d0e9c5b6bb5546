package devnode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"landreg/internal/devnode"
	"landreg/internal/domain"
)

var module = domain.ModuleRef{Address: "0xCAFE", Name: "land_registry"}

const (
	alice = domain.Address("0xa11ce")
	bob   = domain.Address("0xb0b")
)

func fn(name string) string { return "0xcafe::land_registry::" + name }

func submit(t *testing.T, r *devnode.Registry, sender domain.Address) domain.ParcelID {
	t.Helper()
	id := domain.ParcelID(r.NextID())
	err := r.Execute(sender, r.SequenceNumber(sender), fn("submit_land"),
		[]string{"12/3", "cid", "250", "", "Rampur", "Sadar", "Meerut"})
	require.NoError(t, err)
	return id
}

func exec(r *devnode.Registry, sender domain.Address, name string, args ...string) error {
	return r.Execute(sender, r.SequenceNumber(sender), fn(name), args)
}

func TestRegistry_SubmitAssignsSequentialIDs(t *testing.T) {
	r := devnode.NewRegistry(module)
	require.Equal(t, uint64(0), r.NextID())

	require.Equal(t, domain.ParcelID(0), submit(t, r, alice))
	require.Equal(t, domain.ParcelID(1), submit(t, r, alice))
	require.Equal(t, uint64(2), r.NextID())
	require.Equal(t, uint64(2), r.SequenceNumber(alice))

	p, ok := r.Parcel(1)
	require.True(t, ok)
	require.Equal(t, alice, p.Owner)
	require.Equal(t, uint64(250), p.AreaSqm)
	require.Equal(t, domain.StatusPending, p.Status)
}

func TestRegistry_Lifecycle(t *testing.T) {
	cases := []struct {
		name   string
		steps  []string
		want   domain.ParcelStatus
		failAt int // index of the step that must fail, -1 for none
	}{
		{"approve", []string{"approve"}, domain.StatusApproved, -1},
		{"reject", []string{"reject"}, domain.StatusRejected, -1},
		{"dispute pending", []string{"dispute"}, domain.StatusDisputed, -1},
		{"dispute approved", []string{"approve", "dispute"}, domain.StatusDisputed, -1},
		{"approve twice", []string{"approve", "approve"}, domain.StatusApproved, 1},
		{"approve rejected", []string{"reject", "approve"}, domain.StatusRejected, 1},
		{"dispute rejected", []string{"reject", "dispute"}, domain.StatusRejected, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := devnode.NewRegistry(module)
			id := submit(t, r, alice)
			for i, step := range tc.steps {
				err := exec(r, bob, step, id.String())
				if i == tc.failAt {
					require.ErrorIs(t, err, devnode.ErrInvalidTransition)
				} else {
					require.NoError(t, err)
				}
			}
			p, _ := r.Parcel(id)
			require.Equal(t, tc.want, p.Status)
		})
	}
}

func TestRegistry_Transfer(t *testing.T) {
	r := devnode.NewRegistry(module)
	id := submit(t, r, alice)

	require.ErrorIs(t, exec(r, alice, "transfer_ownership", id.String(), bob.String()), devnode.ErrInvalidTransition)
	require.NoError(t, exec(r, bob, "approve", id.String()))
	require.ErrorIs(t, exec(r, bob, "transfer_ownership", id.String(), bob.String()), devnode.ErrNotOwner)
	require.NoError(t, exec(r, alice, "transfer_ownership", id.String(), "0xB0B"))

	p, _ := r.Parcel(id)
	require.Equal(t, bob, p.Owner)
}

func TestRegistry_Errors(t *testing.T) {
	r := devnode.NewRegistry(module)

	require.ErrorIs(t, exec(r, alice, "approve", "9"), devnode.ErrParcelNotFound)
	require.ErrorIs(t, exec(r, alice, "approve", "nine"), devnode.ErrBadArguments)
	require.ErrorIs(t, exec(r, alice, "approve"), devnode.ErrBadArguments)
	require.ErrorIs(t, exec(r, alice, "submit_land", "a", "b", "not-a-number", "", "", "", ""), devnode.ErrBadArguments)
	require.ErrorIs(t, exec(r, alice, "burn", "1"), devnode.ErrUnknownFunction)
	require.ErrorIs(t, r.Execute(alice, 0, "0xdead::land_registry::approve", []string{"0"}), devnode.ErrUnknownFunction)

	// Failed calls do not consume a sequence number.
	require.Equal(t, uint64(0), r.SequenceNumber(alice))

	submit(t, r, alice)
	require.ErrorContains(t, r.Execute(alice, 0, fn("approve"), []string{"0"}), "sequence number")
}
