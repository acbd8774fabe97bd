package keys_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/relkit/internal/keys"
)

const testKeyDirectoryConstant = "/workspace/keys"

func TestScanOrdersByDecodedIndex(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	fileSystem.addFiles(testKeyDirectoryConstant, "Koo7Fq2.json", "Koo1Zx9.json", "KoooAb3.json")
	scanner, scannerError := keys.NewScanner(fileSystem, zap.NewNop())
	require.NoError(testInstance, scannerError)

	files, scanError := scanner.Scan(keys.ScanOptions{
		Directory:  testKeyDirectoryConstant,
		Extension:  ".json",
		Encoding:   defaultEncoding(),
		ShardCount: 256,
	})
	require.NoError(testInstance, scanError)
	require.Equal(testInstance, []keys.KeyFile{
		{Index: 0, Name: "KoooAb3.json"},
		{Index: 1, Name: "Koo1Zx9.json"},
		{Index: 7, Name: "Koo7Fq2.json"},
	}, files)
}

func TestScanSkipsUnrelatedFiles(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	fileSystem.addFiles(testKeyDirectoryConstant, "Koo2Ab.json", "notes.txt", "keypair.json", "K9ooAb.json")
	fileSystem.listings[testKeyDirectoryConstant] = append(fileSystem.listings[testKeyDirectoryConstant], memoryDirEntry{name: "Koo3.json", directory: true})
	core, logs := observer.New(zapcore.WarnLevel)
	scanner, scannerError := keys.NewScanner(fileSystem, zap.New(core))
	require.NoError(testInstance, scannerError)

	files, scanError := scanner.Scan(keys.ScanOptions{
		Directory:  testKeyDirectoryConstant,
		Extension:  ".json",
		Encoding:   defaultEncoding(),
		ShardCount: 4,
	})
	require.NoError(testInstance, scanError)
	require.Equal(testInstance, []keys.KeyFile{{Index: 2, Name: "Koo2Ab.json"}}, files)
	require.Equal(testInstance, 1, logs.FilterMessage("Skipping key file without a shard prefix").Len())
	require.Equal(testInstance, 1, logs.FilterMessage("Skipping key file outside the shard range").Len())
}

func TestScanRejectsDuplicateShards(testInstance *testing.T) {
	fileSystem := newMemoryFileSystem()
	fileSystem.addFiles(testKeyDirectoryConstant, "Koo5Zz.json", "Koo5Aa.json")
	scanner, scannerError := keys.NewScanner(fileSystem, nil)
	require.NoError(testInstance, scannerError)

	_, scanError := scanner.Scan(keys.ScanOptions{
		Directory:  testKeyDirectoryConstant,
		Extension:  ".json",
		Encoding:   defaultEncoding(),
		ShardCount: 256,
	})
	var duplicateError keys.DuplicateShardError
	require.ErrorAs(testInstance, scanError, &duplicateError)
	require.Equal(testInstance, keys.DuplicateShardError{Index: 5, FirstName: "Koo5Aa.json", SecondName: "Koo5Zz.json"}, duplicateError)
}

func TestNewScannerRequiresFileSystem(testInstance *testing.T) {
	scanner, scannerError := keys.NewScanner(nil, nil)
	require.Nil(testInstance, scanner)
	require.ErrorIs(testInstance, scannerError, keys.ErrFileSystemNotConfigured)
}

func TestRenderListing(testInstance *testing.T) {
	listing := keys.RenderListing(keys.ListingOptions{
		ConstantName:     "KEYPAIRS",
		KeyLength:        64,
		ShardCount:       4,
		IncludeDirectory: "keys",
	}, []keys.KeyFile{{Index: 0, Name: "KoooA.json"}, {Index: 2, Name: "Koo2B.json"}, {Index: 3, Name: "Koo3C.json"}})

	require.Equal(testInstance, `pub const KEYPAIRS: [[u8; 64]; 4] = [
    include!("keys/KoooA.json"),
    include!("keys/Koo2B.json"),
    include!("keys/Koo3C.json"),
];
`, string(listing))
}
