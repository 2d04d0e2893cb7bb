package csw

import (
	"fmt"

	"github.com/yourorg/cswzk/pkg/bt"
	"github.com/yourorg/cswzk/pkg/field"
)

// WithdrawalCertificateData is the last certificate a sidechain had confirmed
// on the main chain. BtRoot is always derived from the backward transfers
// the certificate was built with.
type WithdrawalCertificateData struct {
	ledgerID     field.Element
	epochID      uint32
	btRoot       field.Element
	quality      uint64
	mcbScTxsCom  field.Element
	ftMinFee     uint64
	btrMinFee    uint64
	customFields []field.Element
}

// NewWithdrawalCertificate builds a certificate and commits to bts. An empty
// list commits to the empty tree. A failed commitment is returned as
// *CommitmentError.
func NewWithdrawalCertificate(
	ledgerID field.Element,
	epochID uint32,
	bts []bt.BackwardTransfer,
	quality uint64,
	mcbScTxsCom field.Element,
	ftMinFee uint64,
	btrMinFee uint64,
	customFields []field.Element,
) (*WithdrawalCertificateData, error) {

	var list []bt.BackwardTransfer
	if len(bts) > 0 {
		list = bts
	}
	root, err := bt.MerkleRoot(list)
	if err != nil {
		return nil, &CommitmentError{NumTransfers: len(bts), Cause: err}
	}

	return &WithdrawalCertificateData{
		ledgerID:     ledgerID,
		epochID:      epochID,
		btRoot:       root,
		quality:      quality,
		mcbScTxsCom:  mcbScTxsCom,
		ftMinFee:     ftMinFee,
		btrMinFee:    btrMinFee,
		customFields: cloneElements(customFields),
	}, nil
}

// PhantomWithdrawalCertificate stands in for a sidechain that never had a
// certificate confirmed. Its BtRoot equals that of a real certificate with no
// backward transfers.
func PhantomWithdrawalCertificate(numCustomFields int) (*WithdrawalCertificateData, error) {
	if numCustomFields < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCustomFields, numCustomFields)
	}
	root, err := bt.MerkleRoot(nil)
	if err != nil {
		return nil, &CommitmentError{Cause: err}
	}

	ph := field.Phantom()
	custom := make([]field.Element, numCustomFields)
	for i := range custom {
		custom[i] = ph
	}
	return &WithdrawalCertificateData{
		ledgerID:     ph,
		btRoot:       root,
		mcbScTxsCom:  ph,
		customFields: custom,
	}, nil
}

// LedgerID and the accessors below return fields as given, except BtRoot,
// which is the backward-transfer commitment derived at construction.
func (w *WithdrawalCertificateData) LedgerID() field.Element    { return w.ledgerID }
func (w *WithdrawalCertificateData) EpochID() uint32            { return w.epochID }
func (w *WithdrawalCertificateData) BtRoot() field.Element      { return w.btRoot }
func (w *WithdrawalCertificateData) Quality() uint64            { return w.quality }
func (w *WithdrawalCertificateData) McbScTxsCom() field.Element { return w.mcbScTxsCom }
func (w *WithdrawalCertificateData) FtMinFee() uint64           { return w.ftMinFee }
func (w *WithdrawalCertificateData) BtrMinFee() uint64          { return w.btrMinFee }

// CustomFields returns a copy of the sidechain-specific fields.
func (w *WithdrawalCertificateData) CustomFields() []field.Element {
	return cloneElements(w.customFields)
}

func (w *WithdrawalCertificateData) NumCustomFields() int { return len(w.customFields) }

// Elements lists the certificate in hashing order.
func (w *WithdrawalCertificateData) Elements() []field.Element {
	out := make([]field.Element, 0, 7+len(w.customFields))
	out = append(out,
		w.ledgerID,
		field.FromUint64(uint64(w.epochID)),
		w.btRoot,
		field.FromUint64(w.quality),
		w.mcbScTxsCom,
		field.FromUint64(w.ftMinFee),
		field.FromUint64(w.btrMinFee),
	)
	return append(out, w.customFields...)
}

// Hash is the value the main chain publishes as the sidechain's last
// certificate hash.
func (w *WithdrawalCertificateData) Hash() (field.Element, error) {
	return field.Hash(w.Elements()...)
}

// Equal compares every field. Two nil certificates are equal; nil never
// equals a non-nil one.
func (w *WithdrawalCertificateData) Equal(o *WithdrawalCertificateData) bool {
	if w == nil || o == nil {
		return w == o
	}
	if w.epochID != o.epochID || w.quality != o.quality ||
		w.ftMinFee != o.ftMinFee || w.btrMinFee != o.btrMinFee ||
		len(w.customFields) != len(o.customFields) {
		return false
	}
	if !w.ledgerID.Equal(&o.ledgerID) || !w.btRoot.Equal(&o.btRoot) || !w.mcbScTxsCom.Equal(&o.mcbScTxsCom) {
		return false
	}
	for i := range w.customFields {
		if !w.customFields[i].Equal(&o.customFields[i]) {
			return false
		}
	}
	return true
}

func (w *WithdrawalCertificateData) clone() *WithdrawalCertificateData {
	c := *w
	c.customFields = cloneElements(w.customFields)
	return &c
}

func cloneElements(in []field.Element) []field.Element {
	if in == nil {
		return []field.Element{}
	}
	return append(make([]field.Element, 0, len(in)), in...)
}
