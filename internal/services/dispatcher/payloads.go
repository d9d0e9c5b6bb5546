package dispatcher

import (
	"strconv"

	"landreg/internal/domain"
)

// Entry points of the land-registry module.
const (
	submitLandFunction        = "submit_land"
	approveFunction           = "approve"
	rejectFunction            = "reject"
	disputeFunction           = "dispute"
	transferOwnershipFunction = "transfer_ownership"
)

// BuildSubmit builds the submit_land payload. Argument order is fixed by
// the entry point: khasra, CID, area, notes, village, tehsil, district.
func BuildSubmit(module domain.ModuleRef, p domain.SubmitLandParams) domain.TransactionPayload {
	return domain.NewEntryFunctionPayload(module, submitLandFunction,
		p.KhasraNumber,
		p.DocumentCID,
		strconv.FormatUint(p.AreaSqm, 10),
		p.Notes,
		p.Village,
		p.Tehsil,
		p.District,
	)
}

// BuildApprove builds the approve payload.
func BuildApprove(module domain.ModuleRef, id domain.ParcelID) domain.TransactionPayload {
	return domain.NewEntryFunctionPayload(module, approveFunction, id.String())
}

// BuildReject builds the reject payload.
func BuildReject(module domain.ModuleRef, id domain.ParcelID) domain.TransactionPayload {
	return domain.NewEntryFunctionPayload(module, rejectFunction, id.String())
}

// BuildDispute builds the dispute payload.
func BuildDispute(module domain.ModuleRef, id domain.ParcelID) domain.TransactionPayload {
	return domain.NewEntryFunctionPayload(module, disputeFunction, id.String())
}

// BuildTransfer builds the transfer_ownership payload.
func BuildTransfer(module domain.ModuleRef, id domain.ParcelID, newOwner domain.Address) domain.TransactionPayload {
	return domain.NewEntryFunctionPayload(module, transferOwnershipFunction, id.String(), newOwner.String())
}
