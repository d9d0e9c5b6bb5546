package devnode

import (
	"encoding/json"

	"golang.org/x/crypto/sha3"

	"landreg/internal/crypto"
	"landreg/internal/domain"
)

var rawTransactionSalt = sha3.Sum256([]byte("LANDREG_DEVNODE::RawTransaction"))

// signingMessage is salt || canonical JSON of tx. The struct encoding is
// deterministic, so encode_submission and submit agree on the bytes.
func signingMessage(tx domain.UnsignedTransaction) ([]byte, error) {
	tx.Sender = tx.Sender.Normalize()
	body, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	return append(rawTransactionSalt[:], body...), nil
}

func transactionHash(tx domain.SignedTransaction) (string, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(body)
	return crypto.Hex(sum[:]), nil
}
