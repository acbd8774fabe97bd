// Package keys generates sharded vanity keypairs with solana-keygen and
// emits a Rust source listing that embeds them.
//
// Each shard index is encoded into a fixed-width public key prefix. The tool
// is asked for one match per prefix, and the resulting key files are listed in
// shard order by decoding the index back out of each file name.
package keys
