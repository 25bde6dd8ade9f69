package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/stretchr/testify/require"
)

func TestGetPCash(t *testing.T) {
	c, err := GetPCash()
	require.NoError(t, err)
	require.Equal(t, "PCash", c.Manifest.Name)

	for _, name := range []string{"Transfer", "Create", "Notify", "Deposit", "Redeem"} {
		require.NotNil(t, c.Manifest.ABI.GetEvent(name), name)
	}
	require.NotNil(t, c.Manifest.ABI.GetMethod("swapBack", 3))
	require.NotNil(t, c.Manifest.ABI.GetMethod("transfer", 4))
}

func TestGetMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	_, err := readContractFromDir(_fs, pcashDir)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		manifestPath = pcashDir + "/" + manifestName
	)

	_, validManifest := anyValidManifest(t, "zero")
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := readContractFromDir(_fs, pcashDir)
	require.NoError(t, err)

	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = readContractFromDir(_fs, pcashDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
