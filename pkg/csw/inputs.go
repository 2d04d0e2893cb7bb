package csw

// UtxoOutputData is a sidechain output as it is committed in the sidechain
// state tree.
type UtxoOutputData struct {
	SpendingPubKey PublicKeyBits
	Amount         uint64
	Nonce          uint64
	CustomHash     FieldHashBits
}

// DefaultUtxoOutput is the phantom output.
func DefaultUtxoOutput() UtxoOutputData {
	return UtxoOutputData{SpendingPubKey: PhantomPublicKeyBits()}
}

// UtxoInputData is an unspent output together with the key that spends it.
type UtxoInputData struct {
	Output    UtxoOutputData
	SecretKey SecretKeyBits
}

// DefaultUtxoInput is the phantom input.
func DefaultUtxoInput() UtxoInputData {
	return UtxoInputData{
		Output:    DefaultUtxoOutput(),
		SecretKey: PhantomSecretKeyBits(),
	}
}

// FtInputData is a forward transfer as recorded in a main-chain block.
type FtInputData struct {
	Amount              uint64
	ReceiverPubKey      PublicKeyBits
	PaybackAddrDataHash ReturnAddressBits
	TxHash              FieldHashBits
	OutIdx              uint32
}

// DefaultFtInput is the phantom forward transfer.
func DefaultFtInput() FtInputData {
	return FtInputData{ReceiverPubKey: PhantomPublicKeyBits()}
}
