package models

// WalletFromAuth is the identity the auth collaborator resolves from a
// bearer token. The ledger treats Address as an opaque primary key.
type WalletFromAuth struct {
	Address string `json:"address"`
}
