// Package resolver reads land-registry state from the chain without a wallet.
//
// Parcels are resolved in two tiers, always in this order:
//
//  1. View call: POST <node>/views naming the module's get_parcel function.
//     A 2xx response is returned as-is.
//  2. Table lookup: only when the view call answers with a non-2xx status.
//     The Registry resource is read, the parcels table handle is located,
//     and the item is read by its decimal key.
//
// Transport failures of the view call are not a reason to fall back; they
// are returned immediately. The table tier exists for nodes and networks
// that do not serve the view function.
//
// Resource shapes differ between node versions and SDKs, so field lookups
// go through ordered lists of field paths (see probe.go) rather than fixed
// struct decoding.
package resolver
