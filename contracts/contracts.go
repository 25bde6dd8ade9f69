/*
Package contracts embeds ABI manifests of the ledger contracts and provides
access to them.
*/
package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
)

const (
	pcashDir = "pcash"

	manifestName = "manifest.json"
)

// Contract groups information about the ledger contract stored in the
// current package.
type Contract struct {
	Manifest manifest.Manifest
}

var (
	//go:embed pcash/manifest.json
	_fs embed.FS

	errInvalidManifest = errors.New("invalid manifest")
)

// GetPCash returns manifest of the PCash ledger contract.
func GetPCash() (Contract, error) {
	return readContractFromDir(_fs, pcashDir)
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// Only embedded FS is supported now and it uses "/" even on Windows,
	// so filepath.Join() is not applicable.
	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
