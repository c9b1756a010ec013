package typescript

import "github.com/Alia5/borshgen/internal/codegen/common"

// Config controls how layouts are rendered into schema.ts.
type Config struct {
	PublicKeyHack   bool   `name:"pubkey-hack" help:"Route 32-byte identifier fields through the patched publicKeyHack reader/writer methods (otherwise they are emitted as a plain 32-byte array)" default:"true" negatable:"" env:"BORSHGEN_PUBKEY_HACK"`
	PublicKeyModule string `name:"pubkey-module" help:"Module that exports the PublicKey class" default:"@velas/web3" env:"BORSHGEN_PUBKEY_MODULE"`
	BorshModule     string `help:"Module that exports BinaryReader and BinaryWriter" default:"borsh" env:"BORSHGEN_BORSH_MODULE"`
	FieldCase       string `help:"Casing of record field keys: preserve or camel" default:"preserve" enum:"preserve,camel" env:"BORSHGEN_FIELD_CASE"`
}

// DefaultConfig mirrors the flag defaults.
func DefaultConfig() Config {
	return Config{
		PublicKeyHack:   true,
		PublicKeyModule: "@velas/web3",
		BorshModule:     "borsh",
		FieldCase:       common.FieldCasePreserve,
	}
}
